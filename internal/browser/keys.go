package browser

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevSubject  key.Binding
	NextSubject  key.Binding
	JumpSubject  key.Binding
	ClassPicker  key.Binding
	UnitPicker   key.Binding
	StatusPicker key.Binding
	NotStarted   key.Binding
	Weak         key.Binding
	Sort         key.Binding
	Clear        key.Binding
	Detail       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		PrevSubject:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev subject")),
		NextSubject:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next subject")),
		JumpSubject:  key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "jump to subject")),
		ClassPicker:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "class")),
		UnitPicker:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "units")),
		StatusPicker: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		NotStarted:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "not started")),
		Weak:         key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "weak chapters")),
		Sort:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
		Clear:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		Detail:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextSubject, k.ClassPicker, k.Weak, k.Sort, k.Detail, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevSubject, k.NextSubject, k.JumpSubject},
		{k.ClassPicker, k.UnitPicker, k.StatusPicker},
		{k.NotStarted, k.Weak, k.Sort, k.Clear},
		{k.Detail, k.Help, k.Quit},
	}
}

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Close  key.Binding
}

func defaultPickerKeys() pickerKeyMap {
	return pickerKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Close:  key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter/esc", "close")),
	}
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Close}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
