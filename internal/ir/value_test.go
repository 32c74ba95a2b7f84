package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Bytes{0x1e, 0x95, 0x0f}
	var _ Value = Block{}
}

func TestValueTypeNames(t *testing.T) {
	assert.Equal(t, "string", String("x").TypeName())
	assert.Equal(t, "int", Int(1).TypeName())
	assert.Equal(t, "bytes", Bytes{1}.TypeName())
	assert.Equal(t, "block", Block{}.TypeName())
}

func TestNewAttributesPreservesOrder(t *testing.T) {
	attrs := NewAttributes(
		Attribute{Name: "zeta", Value: Int(1)},
		Attribute{Name: "alpha", Value: Int(2)},
		Attribute{Name: "mid", Value: Int(3)},
	)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, attrs.Names())
	assert.Equal(t, 3, attrs.Len())
}

func TestNewAttributesLaterAssignmentWins(t *testing.T) {
	attrs := NewAttributes(
		Attribute{Name: "a", Value: Int(1)},
		Attribute{Name: "b", Value: Int(2)},
		Attribute{Name: "a", Value: Int(3)},
	)

	assert.Equal(t, []string{"a", "b"}, attrs.Names())
	v, ok := attrs.Get("a")
	require.True(t, ok)
	assert.Equal(t, Int(3), v)
}

func TestAttributesZeroValue(t *testing.T) {
	var attrs Attributes

	assert.Equal(t, 0, attrs.Len())
	assert.Empty(t, attrs.Names())
	_, ok := attrs.Get("anything")
	assert.False(t, ok)
	assert.True(t, attrs.Equal(NewAttributes()))
}

func TestAttributesWithout(t *testing.T) {
	attrs := NewAttributes(
		Attribute{Name: "description", Value: String("d")},
		Attribute{Name: "size", Value: Int(4)},
		Attribute{Name: "signature", Value: Bytes{1, 2, 3}},
	)

	trimmed := attrs.Without("description", "signature")

	assert.Equal(t, []string{"size"}, trimmed.Names())
	assert.Equal(t, 3, attrs.Len(), "original must be untouched")
}

func TestAttributesItemsIsACopy(t *testing.T) {
	attrs := NewAttributes(Attribute{Name: "a", Value: Int(1)})

	items := attrs.Items()
	items[0].Value = Int(99)

	v, _ := attrs.Get("a")
	assert.Equal(t, Int(1), v)
}

func TestAttributesAllStopsEarly(t *testing.T) {
	attrs := NewAttributes(
		Attribute{Name: "a", Value: Int(1)},
		Attribute{Name: "b", Value: Int(2)},
	)

	var seen []string
	for name := range attrs.All() {
		seen = append(seen, name)
		break
	}
	assert.Equal(t, []string{"a"}, seen)
}

func TestValueEqual(t *testing.T) {
	block := func(n int64) Block {
		return Block{Attrs: NewAttributes(Attribute{Name: "size", Value: Int(n)})}
	}

	tests := []struct {
		name string
		x, y Value
		want bool
	}{
		{"same string", String("a"), String("a"), true},
		{"different string", String("a"), String("b"), false},
		{"int vs string", Int(1), String("1"), false},
		{"bytes", Bytes{1, 2, 3}, Bytes{1, 2, 3}, true},
		{"bytes permuted", Bytes{1, 2, 3}, Bytes{3, 2, 1}, false},
		{"nested block", block(4), block(4), true},
		{"nested block differs", block(4), block(8), false},
		{"nil", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueEqual(tt.x, tt.y))
		})
	}
}

func TestAttributesEqualIsOrderSensitive(t *testing.T) {
	a := NewAttributes(Attribute{Name: "x", Value: Int(1)}, Attribute{Name: "y", Value: Int(2)})
	b := NewAttributes(Attribute{Name: "y", Value: Int(2)}, Attribute{Name: "x", Value: Int(1)})

	assert.False(t, a.Equal(b))
}

func TestAttributesBytesAreNotShared(t *testing.T) {
	input := Bytes{1, 2, 3}
	a := NewAttributes(Attribute{Name: "readback", Value: input})
	input[0] = 0xff

	v, ok := a.Get("readback")
	require.True(t, ok)
	assert.Equal(t, Bytes{1, 2, 3}, v, "input slice is copied")

	v.(Bytes)[0] = 0xee
	for _, got := range a.All() {
		assert.Equal(t, Bytes{1, 2, 3}, got, "Get hands out a copy")
		got.(Bytes)[1] = 0xee
	}
	items := a.Items()
	assert.Equal(t, Bytes{1, 2, 3}, items[0].Value, "All hands out a copy")
	items[0].Value.(Bytes)[2] = 0xee

	again, _ := a.Get("readback")
	assert.Equal(t, Bytes{1, 2, 3}, again, "Items hands out a copy")
}

func TestAttributesBytesInsideBlockAreNotShared(t *testing.T) {
	a := NewAttributes(Attribute{
		Name:  "memory:m",
		Value: Block{Attrs: NewAttributes(Attribute{Name: "readback", Value: Bytes{1, 2, 3}})},
	})

	v, _ := a.Get("memory:m")
	inner, _ := v.(Block).Attrs.Get("readback")
	inner.(Bytes)[0] = 0xff

	v, _ = a.Get("memory:m")
	again, _ := v.(Block).Attrs.Get("readback")
	assert.Equal(t, Bytes{1, 2, 3}, again)
}
