package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWholeWordRejectsSubstringMatch(t *testing.T) {
	f := New([]string{"fin"}, ModeWholeWord)

	assert.False(t, f.ContainsDenylisted("this is fine"), "term inside a larger word must not match")
	assert.True(t, f.ContainsDenylisted("this is fin"))
	assert.True(t, f.ContainsDenylisted("FIN."), "case folded, punctuation is a boundary")
	assert.True(t, f.ContainsDenylisted("well,fin,indeed"))
}

func TestSubstringMode(t *testing.T) {
	f := New([]string{"fin"}, ModeSubstring)

	assert.True(t, f.ContainsDenylisted("this is fine"))
	assert.True(t, f.ContainsDenylisted("this is fin"))
	assert.False(t, f.ContainsDenylisted("nothing here"))
}

func TestCaseFolding(t *testing.T) {
	f := New([]string{"BadWord"}, ModeWholeWord)

	assert.True(t, f.ContainsDenylisted("what a badword that is"))
	assert.True(t, f.ContainsDenylisted("BADWORD"))
}

func TestEmptyDenylist(t *testing.T) {
	assert.False(t, New(nil, ModeWholeWord).ContainsDenylisted("anything"))
	assert.False(t, New([]string{" ", ""}, ModeSubstring).ContainsDenylisted("anything"))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeSubstring, ParseMode("substring"))
	assert.Equal(t, ModeSubstring, ParseMode(" SUBSTRING "))
	assert.Equal(t, ModeWholeWord, ParseMode("wholeword"))
	assert.Equal(t, ModeWholeWord, ParseMode(""))
	assert.Equal(t, ModeWholeWord, ParseMode("bogus"))
}
