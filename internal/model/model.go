package model

import (
	"fmt"
	"strings"
)

// Kind identifies a whisper.cpp model family.
type Kind string

const (
	KindTiny         Kind = "tiny"
	KindTinyEN       Kind = "tiny.en"
	KindBase         Kind = "base"
	KindBaseEN       Kind = "base.en"
	KindSmall        Kind = "small"
	KindSmallEN      Kind = "small.en"
	KindMedium       Kind = "medium"
	KindMediumEN     Kind = "medium.en"
	KindLargeV2      Kind = "large-v2"
	KindLargeV3      Kind = "large-v3"
	KindLargeV3Turbo Kind = "large-v3-turbo"
)

// Quantization identifies a model compression variant. It affects the
// cache file name only, not the recognition contract.
type Quantization string

const (
	QuantF16  Quantization = "f16"
	QuantQ4_0 Quantization = "q4_0"
	QuantQ4_1 Quantization = "q4_1"
	QuantQ5_0 Quantization = "q5_0"
	QuantQ5_1 Quantization = "q5_1"
	QuantQ8_0 Quantization = "q8_0"
)

// Identity is an immutable model descriptor mapping deterministically
// to one cache file name.
type Identity struct {
	Kind         Kind
	Quantization Quantization
}

var knownKinds = []Kind{
	KindTiny, KindTinyEN, KindBase, KindBaseEN, KindSmall, KindSmallEN,
	KindMedium, KindMediumEN, KindLargeV2, KindLargeV3, KindLargeV3Turbo,
}

var knownQuantizations = []Quantization{
	QuantF16, QuantQ4_0, QuantQ4_1, QuantQ5_0, QuantQ5_1, QuantQ8_0,
}

// Kinds returns all known model kinds.
func Kinds() []Kind {
	out := make([]Kind, len(knownKinds))
	copy(out, knownKinds)
	return out
}

// Quantizations returns all known quantization variants.
func Quantizations() []Quantization {
	out := make([]Quantization, len(knownQuantizations))
	copy(out, knownQuantizations)
	return out
}

// ParseIdentity validates a kind/quantization pair. Both tokens are
// case-insensitive.
func ParseIdentity(kind, quantization string) (Identity, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(kind)))
	q := Quantization(strings.ToLower(strings.TrimSpace(quantization)))
	if q == "" {
		q = QuantF16
	}

	if !kindKnown(k) {
		return Identity{}, fmt.Errorf("unknown model kind: %q", kind)
	}
	if !quantKnown(q) {
		return Identity{}, fmt.Errorf("unknown model quantization: %q", quantization)
	}

	return Identity{Kind: k, Quantization: q}, nil
}

func kindKnown(k Kind) bool {
	for _, known := range knownKinds {
		if known == k {
			return true
		}
	}
	return false
}

func quantKnown(q Quantization) bool {
	for _, known := range knownQuantizations {
		if known == q {
			return true
		}
	}
	return false
}

// FileName returns the cache file name for this identity,
// ggml-{kind}-{quantization}.bin with both tokens lower-cased.
func (id Identity) FileName() string {
	return fmt.Sprintf("ggml-%s-%s.bin",
		strings.ToLower(string(id.Kind)),
		strings.ToLower(string(id.Quantization)))
}

// RemoteName returns the upstream file name. The f16 release files are
// published without a quantization suffix.
func (id Identity) RemoteName() string {
	if id.Quantization == QuantF16 {
		return fmt.Sprintf("ggml-%s.bin", strings.ToLower(string(id.Kind)))
	}
	return id.FileName()
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s", id.Kind, id.Quantization)
}

// CatalogEntry describes one model kind for display.
type CatalogEntry struct {
	Kind        Kind
	SizeLabel   string
	Description string
}

// Catalog returns display metadata for the built-in model kinds.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{KindTiny, "~75 MB", "Fastest multilingual model."},
		{KindTinyEN, "~75 MB", "Fastest, English-only."},
		{KindBase, "~142 MB", "Balanced speed and quality, multilingual."},
		{KindBaseEN, "~142 MB", "Balanced speed and quality, English-only."},
		{KindSmall, "~466 MB", "Higher quality multilingual model."},
		{KindSmallEN, "~466 MB", "Higher quality, English-only."},
		{KindMedium, "~1.5 GB", "High quality multilingual model."},
		{KindMediumEN, "~1.5 GB", "High quality, English-only."},
		{KindLargeV2, "~2.9 GB", "Very high quality multilingual model."},
		{KindLargeV3, "~2.9 GB", "Latest large multilingual model."},
		{KindLargeV3Turbo, "~1.6 GB", "Faster large-v3 variant."},
	}
}
