package inject

import "github.com/micmonay/keybd_event"

// stroke is one synthetic key press, optionally shifted.
type stroke struct {
	code  int
	shift bool
}

// strokeFor maps a rune to a keystroke on a US layout. The bool is
// false for runes that cannot be typed directly; callers should fall
// back to pasting for those.
func strokeFor(r rune) (stroke, bool) {
	if r >= 'a' && r <= 'z' {
		return stroke{code: letterCodes[r-'a']}, true
	}
	if r >= 'A' && r <= 'Z' {
		return stroke{code: letterCodes[r-'A'], shift: true}, true
	}
	if r >= '0' && r <= '9' {
		return stroke{code: digitCodes[r-'0']}, true
	}
	s, ok := specialCodes[r]
	return s, ok
}

var letterCodes = [26]int{
	keybd_event.VK_A, keybd_event.VK_B, keybd_event.VK_C, keybd_event.VK_D,
	keybd_event.VK_E, keybd_event.VK_F, keybd_event.VK_G, keybd_event.VK_H,
	keybd_event.VK_I, keybd_event.VK_J, keybd_event.VK_K, keybd_event.VK_L,
	keybd_event.VK_M, keybd_event.VK_N, keybd_event.VK_O, keybd_event.VK_P,
	keybd_event.VK_Q, keybd_event.VK_R, keybd_event.VK_S, keybd_event.VK_T,
	keybd_event.VK_U, keybd_event.VK_V, keybd_event.VK_W, keybd_event.VK_X,
	keybd_event.VK_Y, keybd_event.VK_Z,
}

var digitCodes = [10]int{
	keybd_event.VK_0, keybd_event.VK_1, keybd_event.VK_2, keybd_event.VK_3,
	keybd_event.VK_4, keybd_event.VK_5, keybd_event.VK_6, keybd_event.VK_7,
	keybd_event.VK_8, keybd_event.VK_9,
}

// Punctuation uses the VK_SP1..VK_SP11 aliases, the names keybd_event
// defines on every platform for the US-layout punctuation row.
var specialCodes = map[rune]stroke{
	' ':  {code: keybd_event.VK_SPACE},
	'\n': {code: keybd_event.VK_ENTER},
	'\t': {code: keybd_event.VK_TAB},
	'-':  {code: keybd_event.VK_SP1},
	'=':  {code: keybd_event.VK_SP2},
	'[':  {code: keybd_event.VK_SP3},
	']':  {code: keybd_event.VK_SP4},
	';':  {code: keybd_event.VK_SP5},
	'\'': {code: keybd_event.VK_SP6},
	'`':  {code: keybd_event.VK_SP7},
	'\\': {code: keybd_event.VK_SP8},
	',':  {code: keybd_event.VK_SP9},
	'.':  {code: keybd_event.VK_SP10},
	'/':  {code: keybd_event.VK_SP11},

	'!': {code: keybd_event.VK_1, shift: true},
	'@': {code: keybd_event.VK_2, shift: true},
	'#': {code: keybd_event.VK_3, shift: true},
	'$': {code: keybd_event.VK_4, shift: true},
	'%': {code: keybd_event.VK_5, shift: true},
	'^': {code: keybd_event.VK_6, shift: true},
	'&': {code: keybd_event.VK_7, shift: true},
	'*': {code: keybd_event.VK_8, shift: true},
	'(': {code: keybd_event.VK_9, shift: true},
	')': {code: keybd_event.VK_0, shift: true},
	'_': {code: keybd_event.VK_SP1, shift: true},
	'+': {code: keybd_event.VK_SP2, shift: true},
	'{': {code: keybd_event.VK_SP3, shift: true},
	'}': {code: keybd_event.VK_SP4, shift: true},
	':': {code: keybd_event.VK_SP5, shift: true},
	'"': {code: keybd_event.VK_SP6, shift: true},
	'~': {code: keybd_event.VK_SP7, shift: true},
	'|': {code: keybd_event.VK_SP8, shift: true},
	'<': {code: keybd_event.VK_SP9, shift: true},
	'>': {code: keybd_event.VK_SP10, shift: true},
	'?': {code: keybd_event.VK_SP11, shift: true},
}
