// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shortcut

import "strings"

// Paragraph is one block of the note. Emphasis selects a highlight style.
type Paragraph struct {
	Text     string
	Emphasis Emphasis
}

// Emphasis selects how a paragraph is highlighted.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisStrong
	EmphasisHeadline
)

// NoteTitle heads the note view.
const NoteTitle = "A Note..."

// NoteSignature closes the note view.
const NoteSignature = "— PJ"

// NoteBackHint is shown under the note.
const NoteBackHint = "← Back to Chat (esc)"

// Note is the static body of the note view.
var Note = []Paragraph{
	{Text: "I actually made this for myself, not for you, also, I know it's a little cringe and stupid 😅"},
	{Text: "But I'm pretty sure it'll make you smile at least once."},
	{Text: "We're still in the process of getting to know each other, but jitni baat abhi tak hui hai… I genuinely feel you're a good human, thaplu. And pretty too ....at least from the inside (hehehe joke)"},
	{Text: "I even told something like this to Sumedha… okay no, chhodo, long story."},
	{Text: "I know sometimes when you're low, you don't feel like talking to anyone. Bas overthinking hi krti rehti hogi, sad hoti rehti hogi", Emphasis: EmphasisStrong},
	{Text: "So ab jab mann na ho kisi se baat karne ka, you can always talk to this stupid bot instead. And if it doesn't work, the OG bot maker."},
	{Text: "And just so you know agar kabhi lage ki I pity you or something, toh clear kar deta hoon: mujhe ghanta kisi pe daya nahi aati 1% bhi."},
	{Text: "I just genuinely enjoy talking to you, that's it. Baaki zyada bolunga toh tum gaali dogi, bitching krne lagogi, waise bhi karti hee ho bata raha tha halwai..."},
	{Text: "Once again… I made it for me 😌", Emphasis: EmphasisHeadline},
	{Text: "Heheheh."},
}

// PlainNote renders the note as plain text for line-mode front-ends.
func PlainNote() string {
	var b strings.Builder
	b.WriteString(NoteTitle + "\n\n")
	for _, p := range Note {
		b.WriteString(p.Text + "\n\n")
	}
	b.WriteString(NoteSignature + "\n")
	return b.String()
}
