package sha256

import "testing"

func TestHashKnownVectors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "digest page",
			input: "<!doctype html><title>Daily Feed Digest</title>",
			want:  "bfd14c254b39636da944b9805650581f964108df0d0829f3a9ef1e29a33b3407",
		},
		{
			name:  "empty input",
			input: "",
			want:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	h := New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := h.Hash([]byte(tc.input))
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("Hash() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestHashDeterministic(t *testing.T) {
	t.Parallel()

	h := New()
	first, err := h.Hash([]byte("run 2026-08-22"))
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := h.Hash([]byte("run 2026-08-22"))
	if err != nil {
		t.Fatalf("Hash() repeat error = %v", err)
	}
	if first != second {
		t.Fatalf("hashes differ across calls: %s vs %s", first, second)
	}
}
