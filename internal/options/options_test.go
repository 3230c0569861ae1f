package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	r := Defaults()
	assert.Equal(t, "book.bin", r.String(BookFile))
	assert.False(t, r.Bool(BestBookMove))
	assert.False(t, r.Bool(OwnBook))
	assert.Equal(t, 16, r.Int(BookMaxPlies))

	assert.Equal(t, []string{
		"option name Book File type string default book.bin",
		"option name Best Book Move type check default false",
		"option name OwnBook type check default false",
		"option name Book Max Plies type spin default 16 min 0 max 256",
	}, r.UCI())
}

func TestSetCaseInsensitiveAndHooks(t *testing.T) {
	r := Defaults()
	var seen []string
	require.NoError(t, r.OnChange(BookFile, func(o Option) { seen = append(seen, o.Value) }))

	require.NoError(t, r.Set("book file", "/books/a.bin"))
	require.NoError(t, r.Set("BOOK FILE", "/books/b.bin"))
	assert.Equal(t, []string{"/books/a.bin", "/books/b.bin"}, seen)
	assert.Equal(t, "/books/b.bin", r.String(BookFile))

	require.NoError(t, r.Set("ownbook", "true"))
	assert.True(t, r.Bool(OwnBook))
}

func TestSetRejectsInvalid(t *testing.T) {
	r := Defaults()
	called := false
	require.NoError(t, r.OnChange(BookMaxPlies, func(Option) { called = true }))

	tests := []struct {
		name, value string
	}{
		{BookFile, ""},
		{OwnBook, "yes"},
		{BookMaxPlies, "-1"},
		{BookMaxPlies, "257"},
		{BookMaxPlies, "ten"},
	}
	for _, tt := range tests {
		err := r.Set(tt.name, tt.value)
		assert.ErrorIs(t, err, ErrInvalidValue, "%s=%q", tt.name, tt.value)
	}
	assert.False(t, called)
	assert.Equal(t, 16, r.Int(BookMaxPlies))
	assert.Equal(t, "book.bin", r.String(BookFile))

	assert.ErrorIs(t, r.Set("Hash", "16"), ErrUnknownOption)
	assert.ErrorIs(t, r.OnChange("Hash", func(Option) {}), ErrUnknownOption)
}

func TestButton(t *testing.T) {
	r := NewRegistry()
	r.AddButton("Clear Book")
	pressed := 0
	require.NoError(t, r.OnChange("Clear Book", func(Option) { pressed++ }))
	require.NoError(t, r.Set("Clear Book", ""))
	assert.Equal(t, 1, pressed)
	assert.Equal(t, []string{"option name Clear Book type button"}, r.UCI())
}

func TestHookMaySetOtherOptions(t *testing.T) {
	r := Defaults()
	require.NoError(t, r.OnChange(OwnBook, func(o Option) {
		if o.Value == "false" {
			_ = r.Set(BestBookMove, "false")
		}
	}))
	require.NoError(t, r.Set(BestBookMove, "true"))
	require.NoError(t, r.Set(OwnBook, "false"))
	assert.False(t, r.Bool(BestBookMove))
}
