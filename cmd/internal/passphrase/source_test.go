package passphrase

import "testing"

func TestSourceReadsEnvironmentOnce(t *testing.T) {
	t.Setenv("MOVIEWRITE_TEST_PASS", "correct horse")
	src := NewSource("MOVIEWRITE_TEST_PASS", "operator keystore")

	got, err := src.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "correct horse" {
		t.Fatalf("unexpected passphrase %q", got)
	}

	t.Setenv("MOVIEWRITE_TEST_PASS", "changed")
	again, err := src.Get()
	if err != nil || again != "correct horse" {
		t.Fatalf("expected cached passphrase, got %q (%v)", again, err)
	}
}

func TestSourceRejectsBlankEnvironment(t *testing.T) {
	t.Setenv("MOVIEWRITE_TEST_PASS", "   ")
	if _, err := NewSource("MOVIEWRITE_TEST_PASS", "").Get(); err == nil {
		t.Fatalf("expected error for blank passphrase")
	}
}

type fakeTerminal struct {
	interactive bool
	answer      string
	prompts     []string
}

func (f *fakeTerminal) Interactive() bool { return f.interactive }

func (f *fakeTerminal) ReadSecret(prompt string) ([]byte, error) {
	f.prompts = append(f.prompts, prompt)
	return []byte(f.answer), nil
}

func noEnv(string) (string, bool) { return "", false }

func TestSourcePromptsWhenEnvironmentUnset(t *testing.T) {
	tty := &fakeTerminal{interactive: true, answer: "typed secret"}
	src := NewSource("MOVIEWRITE_TEST_PASS", "account keystore")
	src.lookup = noEnv
	src.tty = tty

	got, err := src.Get()
	if err != nil || got != "typed secret" {
		t.Fatalf("unexpected passphrase %q (%v)", got, err)
	}
	if len(tty.prompts) != 1 || tty.prompts[0] != "Enter account keystore passphrase: " {
		t.Fatalf("unexpected prompts %v", tty.prompts)
	}
	if _, err := src.Get(); err != nil || len(tty.prompts) != 1 {
		t.Fatalf("expected cached passphrase without a second prompt")
	}
}

func TestSourceRejectsBlankAnswerAndMissingTerminal(t *testing.T) {
	src := NewSource("", "")
	src.lookup = noEnv
	src.tty = &fakeTerminal{interactive: true, answer: "  "}
	if _, err := src.Get(); err == nil {
		t.Fatalf("expected error for blank answer")
	}

	src = NewSource("MOVIEWRITE_TEST_PASS", "operator keystore")
	src.lookup = noEnv
	src.tty = &fakeTerminal{}
	if _, err := src.Get(); err == nil {
		t.Fatalf("expected error without a terminal")
	}
}
