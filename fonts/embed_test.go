package fonts

import "testing"

func TestLoadAcceptsPrefixAndSuffix(t *testing.T) {
	for _, name := range []string{"goregular", "embed:goregular", "embed:GoRegular.ttf"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) returned empty data", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("embed:Inter-Regular.ttf"); err == nil {
		t.Fatalf("expected error for unknown built-in font")
	}
}
