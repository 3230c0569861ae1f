package options

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Book option names.
const (
	BookFile     = "Book File"
	BestBookMove = "Best Book Move"
	OwnBook      = "OwnBook"
	BookMaxPlies = "Book Max Plies"
)

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrInvalidValue  = errors.New("invalid option value")
)

type Type string

const (
	Check  Type = "check"
	Spin   Type = "spin"
	String Type = "string"
	Button Type = "button"
)

type Option struct {
	Name    string
	Type    Type
	Default string
	Min     int
	Max     int
	Value   string
}

// OnChange is called with the option after its value was set.
type OnChange func(Option)

type entry struct {
	opt   Option
	hooks []OnChange
}

// Registry holds named options. Lookups ignore case; listing keeps
// registration order.
type Registry struct {
	mu      sync.Mutex
	byName  map[string]*entry
	ordered []*entry
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*entry)}
}

// Defaults returns a registry with the book options registered.
func Defaults() *Registry {
	r := NewRegistry()
	r.AddString(BookFile, "book.bin")
	r.AddCheck(BestBookMove, false)
	r.AddCheck(OwnBook, false)
	r.AddSpin(BookMaxPlies, 16, 0, 256)
	return r
}

func (r *Registry) add(opt Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(opt.Name)
	if e, ok := r.byName[key]; ok {
		e.opt = opt
		return
	}
	e := &entry{opt: opt}
	r.byName[key] = e
	r.ordered = append(r.ordered, e)
}

func (r *Registry) AddString(name, def string) {
	r.add(Option{Name: name, Type: String, Default: def, Value: def})
}

func (r *Registry) AddCheck(name string, def bool) {
	v := strconv.FormatBool(def)
	r.add(Option{Name: name, Type: Check, Default: v, Value: v})
}

func (r *Registry) AddSpin(name string, def, lo, hi int) {
	v := strconv.Itoa(def)
	r.add(Option{Name: name, Type: Spin, Default: v, Min: lo, Max: hi, Value: v})
}

func (r *Registry) AddButton(name string) {
	r.add(Option{Name: name, Type: Button})
}

// OnChange registers fn to run whenever name is set.
func (r *Registry) OnChange(name string, fn OnChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	e.hooks = append(e.hooks, fn)
	return nil
}

// Set validates and stores value, then runs the option's hooks. Rejected
// values leave the option unchanged.
func (r *Registry) Set(name, value string) error {
	r.mu.Lock()
	e, ok := r.byName[strings.ToLower(name)]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	if err := validate(e.opt, value); err != nil {
		r.mu.Unlock()
		return err
	}
	if e.opt.Type != Button {
		e.opt.Value = value
	}
	opt := e.opt
	hooks := append([]OnChange(nil), e.hooks...)
	r.mu.Unlock()

	for _, fn := range hooks {
		fn(opt)
	}
	return nil
}

func validate(opt Option, value string) error {
	switch opt.Type {
	case Button:
		return nil
	case Check:
		if value != "true" && value != "false" {
			return fmt.Errorf("%w: %s wants true or false, got %q", ErrInvalidValue, opt.Name, value)
		}
	case Spin:
		n, err := strconv.Atoi(value)
		if err != nil || n < opt.Min || n > opt.Max {
			return fmt.Errorf("%w: %s wants %d..%d, got %q", ErrInvalidValue, opt.Name, opt.Min, opt.Max, value)
		}
	default:
		if value == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidValue, opt.Name)
		}
	}
	return nil
}

// Get returns a copy of the named option.
func (r *Registry) Get(name string) (Option, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Option{}, false
	}
	return e.opt, true
}

// String returns the value of name, or "" when it is not registered.
func (r *Registry) String(name string) string {
	opt, _ := r.Get(name)
	return opt.Value
}

func (r *Registry) Bool(name string) bool {
	return r.String(name) == "true"
}

func (r *Registry) Int(name string) int {
	n, _ := strconv.Atoi(r.String(name))
	return n
}

// List returns all options in registration order.
func (r *Registry) List() []Option {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Option, 0, len(r.ordered))
	for _, e := range r.ordered {
		out = append(out, e.opt)
	}
	return out
}

// UCI renders the options as "option name ..." lines.
func (r *Registry) UCI() []string {
	opts := r.List()
	lines := make([]string, 0, len(opts))
	for _, o := range opts {
		line := fmt.Sprintf("option name %s type %s", o.Name, o.Type)
		if o.Type != Button {
			line += " default " + o.Default
		}
		if o.Type == Spin {
			line += fmt.Sprintf(" min %d max %d", o.Min, o.Max)
		}
		lines = append(lines, line)
	}
	return lines
}
