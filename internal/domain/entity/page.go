package entity

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

type Action string

const (
	ActionNavigate Action = "navigate"
	ActionClick    Action = "click"
	ActionTypeText Action = "type_text"
	ActionReadText Action = "read_text"
)

func (a Action) String() string {
	return string(a)
}
