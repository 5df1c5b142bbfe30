package model

import "testing"

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		kind    string
		quant   string
		want    Identity
		wantErr bool
	}{
		{"base", "f16", Identity{KindBase, QuantF16}, false},
		{"base", "", Identity{KindBase, QuantF16}, false},
		{"BASE.EN", "Q5_0", Identity{KindBaseEN, QuantQ5_0}, false},
		{" large-v3-turbo ", " q8_0 ", Identity{KindLargeV3Turbo, QuantQ8_0}, false},
		{"tiny.en", "q4_1", Identity{KindTinyEN, QuantQ4_1}, false},
		{"gigantic", "f16", Identity{}, true},
		{"base", "q2_k", Identity{}, true},
		{"", "", Identity{}, true},
	}

	for _, tt := range tests {
		got, err := ParseIdentity(tt.kind, tt.quant)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseIdentity(%q, %q): expected error", tt.kind, tt.quant)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseIdentity(%q, %q): %v", tt.kind, tt.quant, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseIdentity(%q, %q) = %+v, want %+v", tt.kind, tt.quant, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		id   Identity
		want string
	}{
		{Identity{KindBase, QuantF16}, "ggml-base-f16.bin"},
		{Identity{KindTinyEN, QuantQ5_1}, "ggml-tiny.en-q5_1.bin"},
		{Identity{KindLargeV3Turbo, QuantQ8_0}, "ggml-large-v3-turbo-q8_0.bin"},
		{Identity{Kind("BASE"), Quantization("F16")}, "ggml-base-f16.bin"},
	}

	for _, tt := range tests {
		if got := tt.id.FileName(); got != tt.want {
			t.Errorf("FileName(%+v) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRemoteName(t *testing.T) {
	// f16 release files carry no quantization suffix upstream
	if got := (Identity{KindBase, QuantF16}).RemoteName(); got != "ggml-base.bin" {
		t.Errorf("RemoteName f16 = %q", got)
	}
	if got := (Identity{KindBase, QuantQ5_0}).RemoteName(); got != "ggml-base-q5_0.bin" {
		t.Errorf("RemoteName q5_0 = %q", got)
	}
}

func TestCatalogCoversAllKinds(t *testing.T) {
	entries := Catalog()
	if len(entries) != len(Kinds()) {
		t.Fatalf("catalog has %d entries for %d kinds", len(entries), len(Kinds()))
	}
	seen := map[Kind]bool{}
	for _, entry := range entries {
		if !kindKnown(entry.Kind) {
			t.Errorf("catalog lists unknown kind %q", entry.Kind)
		}
		if seen[entry.Kind] {
			t.Errorf("catalog lists %q twice", entry.Kind)
		}
		seen[entry.Kind] = true
	}
}
