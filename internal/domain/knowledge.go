package domain

// Category groups questions shown on the main menu
type Category struct {
	ID       int64
	Name     string
	Hidden   bool
	Ordering int64
}

// Question is a single entry of the knowledge base
type Question struct {
	ID          int64
	CategoryID  int64
	Question    string
	Answer      string
	Attachments []string
	Hidden      bool
	Ordering    int64
}

// Keyboard is a reply keyboard independent of the transport.
// Remove asks the client to hide any keyboard currently shown.
type Keyboard struct {
	Rows   [][]string
	Remove bool
}

// RemoveKeyboard returns a keyboard that clears the reply keyboard
func RemoveKeyboard() *Keyboard {
	return &Keyboard{Remove: true}
}

// Buttons returns all button labels in row order
func (k *Keyboard) Buttons() []string {
	if k == nil {
		return nil
	}
	var out []string
	for _, row := range k.Rows {
		out = append(out, row...)
	}
	return out
}
