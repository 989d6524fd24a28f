package dialog

// Keyboard is a reply keyboard: rows of button labels
type Keyboard struct {
	Rows    [][]string
	OneTime bool // hide after one press
}

// Document is a file attached to a reply
type Document struct {
	Filename string
	Data     []byte
	Caption  string
}

// Reply is what the assistant says back. A nil Keyboard leaves the user's
// current keyboard in place.
type Reply struct {
	Text     string
	Keyboard *Keyboard
	Document *Document
}

func textReply(text string, kb *Keyboard) Reply {
	return Reply{Text: text, Keyboard: kb}
}
