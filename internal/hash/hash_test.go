package hash

import "testing"

func TestHashersAreDeterministic(t *testing.T) {
	cases := []struct {
		name string
		fn   func() bool
	}{
		{"StringXXHash32", func() bool {
			h := StringXXHash32()
			return h("rogue") == h("rogue")
		}},
		{"BytesXXHash32", func() bool {
			h := BytesXXHash32()
			return h([]byte("rogue")) == h([]byte("rogue"))
		}},
		{"Int64XXHash32", func() bool {
			h := Int64XXHash32()
			return h(42) == h(42)
		}},
		{"Uint64XXHash32", func() bool {
			h := Uint64XXHash32()
			return h(42) == h(42)
		}},
		{"StringOneOfOne", func() bool {
			h := StringOneOfOne()
			return h("rogue") == h("rogue")
		}},
		{"BytesOneOfOne", func() bool {
			h := BytesOneOfOne()
			return h([]byte("rogue")) == h([]byte("rogue"))
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !c.fn() {
				t.Fatalf("%s produced different hashes for the same key", c.name)
			}
		})
	}
}

func TestStringAndBytesHashersAgree(t *testing.T) {
	sx := StringXXHash32()
	bx := BytesXXHash32()
	if sx("key-123") != bx([]byte("key-123")) {
		t.Fatal("string and byte xxhash variants disagree on the same content")
	}

	so := StringOneOfOne()
	bo := BytesOneOfOne()
	if so("key-123") != bo([]byte("key-123")) {
		t.Fatal("string and byte oneofone variants disagree on the same content")
	}
}

func TestDistinctKeysUsuallyDiffer(t *testing.T) {
	h := StringXXHash32()
	if h("alpha") == h("beta") {
		t.Fatal("distinct keys hashed to the same value, suspiciously unlikely")
	}
}
