package schedule

import "testing"

func TestNewValidatesCronExpression(t *testing.T) {
	s, err := New("0 */12 * * *", func() {})
	if err != nil {
		t.Fatalf("valid expression rejected: %v", err)
	}
	s.Start()
	s.Stop()

	if _, err := New("not a cron spec", func() {}); err == nil {
		t.Error("invalid expression accepted")
	}
}
