package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "survey",
			objectType:  "result",
			identifier:  "abc",
			expectedKey: "surveygen:survey:result:abc",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "survey",
			objectType:  "result",
			identifier:  "abc",
			paramsKey:   []string{},
			expectedKey: "surveygen:survey:result:abc",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "survey",
			objectType:  "result",
			identifier:  "abc",
			paramsKey:   []string{"ollama", "llama3"},
			expectedKey: "surveygen:survey:result:abc:ollama_llama3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("ollama/llama3", "prompt")
	if a != Fingerprint("ollama/llama3", "prompt") {
		t.Fatal("Fingerprint is not stable")
	}
	if a == Fingerprint("ollama/llama3p", "rompt") {
		t.Error("Fingerprint must separate parts")
	}
	if len(a) != 64 {
		t.Errorf("Fingerprint length = %d, want 64", len(a))
	}
}
