package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/prefs"
)

// DefaultKey is the storage key of the search state
const DefaultKey = "searchData"

// Option is one rendered entry of the engine list
type Option struct {
	Index    int
	Name     string
	Icon     string
	Region   disclosure.Region
	Selected bool
}

// View receives the rendered engine menu and toggle. Any method may be a no-op.
type View interface {
	RenderOptions(options []Option)
	SetToggle(label string, icon string)
	SetPlaceholder(text string)
}

// Navigator opens a URL in a new browsing context, never replacing the page
type Navigator interface {
	Open(url string) error
}

// Options configures a Selector
type Options struct {
	Key     string
	Engines []Engine

	Toggle disclosure.Region
	Body   disclosure.Region
	Input  disclosure.Region

	Policy     disclosure.NavPolicy
	Transition time.Duration
	Focus      disclosure.Focuser
	Scheduler  disclosure.Scheduler

	View      View
	Navigator Navigator
	Logger    *log.Logger
}

// Selector is the search-engine picker: a list-type disclosure widget plus persisted selection
type Selector struct {
	store  *prefs.Store
	opts   Options
	logger *log.Logger

	engines  []Engine
	restored bool
	active   int

	menu *disclosure.Controller
}

// NewSelector loads the persisted selection and registers the menu in group
func NewSelector(store *prefs.Store, group *disclosure.Group, opts Options) *Selector {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if len(opts.Engines) == 0 {
		opts.Engines = Defaults()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Selector{store: store, opts: opts, logger: logger}
	s.engines, s.restored, s.active = s.load()

	s.menu = disclosure.New(group, disclosure.Options{
		ID:         "search-engine",
		Toggle:     opts.Toggle,
		Body:       opts.Body,
		Policy:     opts.Policy,
		Transition: opts.Transition,
		List:       s,
		Focus:      opts.Focus,
		Scheduler:  opts.Scheduler,
	})
	return s
}

// Menu returns the disclosure controller of the engine menu
func (s *Selector) Menu() *disclosure.Controller { return s.menu }

// Engines returns the loaded engine list
func (s *Selector) Engines() []Engine { return Clone(s.engines) }

// Active returns the active index
func (s *Selector) Active() int { return s.active }

// ActiveEngine returns the active engine
func (s *Selector) ActiveEngine() Engine { return s.engines[s.active] }

// Restored reports whether the engine list came from storage instead of the host
func (s *Selector) Restored() bool { return s.restored }

// Len, Selected, Commit and OptionRegion make the selector the menu's list source
func (s *Selector) Len() int { return len(s.engines) }

func (s *Selector) Selected() int { return s.active }

func (s *Selector) Commit(index int) bool { return s.Select(index) }

func (s *Selector) OptionRegion(index int) disclosure.Region {
	if s.opts.Body == "" {
		return ""
	}
	return s.opts.Body.Child(fmt.Sprintf("option-%d", index))
}

// Options renders the list, each entry tagged with its index
func (s *Selector) Options() []Option {
	options := make([]Option, len(s.engines))
	for i, e := range s.engines {
		options[i] = Option{
			Index:    i,
			Name:     e.Name,
			Icon:     e.Icon,
			Region:   s.OptionRegion(i),
			Selected: i == s.active,
		}
	}
	return options
}

// Render regenerates the option list and the toggle from the current state
func (s *Selector) Render() {
	s.render(s.active)
}

func (s *Selector) render(active int) {
	view := s.opts.View
	if view == nil {
		return
	}
	options := s.Options()
	for i := range options {
		options[i].Selected = i == active
	}
	view.RenderOptions(options)
	e := s.engines[active]
	view.SetToggle(ToggleLabel(e), e.Icon)
	view.SetPlaceholder(Placeholder(e))
}

// Select makes index the active engine, persists it and closes the menu.
// Out-of-range indexes are ignored.
func (s *Selector) Select(index int) bool {
	if index < 0 || index >= len(s.engines) {
		return false
	}
	s.render(index)
	s.active = index
	s.save()
	s.menu.Close()
	s.logger.Debug("search engine selected", "index", index, "name", s.engines[index].Name)
	return true
}

// SelectByName selects the first engine whose name matches case-insensitively
func (s *Selector) SelectByName(name string) bool {
	for i, e := range s.engines {
		if strings.EqualFold(e.Name, strings.TrimSpace(name)) {
			return s.Select(i)
		}
	}
	return false
}

// PerformSearch builds the search URL for query and hands it to the navigator.
// A blank query refocuses the input and navigates nowhere.
func (s *Selector) PerformSearch(query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		if s.opts.Focus != nil && s.opts.Input != "" {
			s.opts.Focus.Focus(s.opts.Input)
		}
		return "", false
	}

	target := SearchURL(s.engines[s.active].URL, query)
	if s.opts.Navigator != nil {
		if err := s.opts.Navigator.Open(target); err != nil {
			s.logger.Warn("could not open search", "url", target, "error", err)
		}
	}
	return target, true
}

// Reload re-reads the persisted selection, e.g. after another process changed the store.
func (s *Selector) Reload() {
	s.engines, s.restored, s.active = s.load()
	s.Render()
}

// ToggleLabel is the accessible label of the toggle
func ToggleLabel(e Engine) string {
	return "Current search engine: " + e.Name + ", press to switch"
}

// Placeholder is the search input placeholder
func Placeholder(e Engine) string {
	return "Search with " + e.Name
}

// persisted is the stored record. Both historical shapes are read; data is only written back
// when the list itself was restored from storage.
type persisted struct {
	EngineIndex    *int     `json:"engineIndex,omitempty"`
	ThisSearch     string   `json:"thisSearch,omitempty"`
	ThisSearchIcon string   `json:"thisSearchIcon,omitempty"`
	Data           []Engine `json:"data,omitempty"`
}

func (s *Selector) load() ([]Engine, bool, int) {
	engines := Clone(s.opts.Engines)
	if s.store == nil {
		return engines, false, 0
	}

	var fields map[string]json.RawMessage
	if !s.store.LoadJSON(s.opts.Key, &fields) {
		return engines, false, 0
	}

	restored := false
	if list, ok := decodeEngineList(fields["data"]); ok {
		engines = list
		restored = true
	}

	var index *int
	if raw, ok := fields["engineIndex"]; ok {
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil && n == float64(int(n)) {
			i := int(n)
			index = &i
		}
	}
	var match string
	if raw, ok := fields["thisSearch"]; ok {
		_ = json.Unmarshal(raw, &match)
	}

	return engines, restored, ResolveActive(engines, index, match)
}

// decodeEngineList keeps the entries whose name, url and img are all strings.
// An absent, malformed or fully invalid list reports false.
func decodeEngineList(raw json.RawMessage) ([]Engine, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}

	out := make([]Engine, 0, len(items))
	for _, item := range items {
		name, okName := item["name"].(string)
		link, okURL := item["url"].(string)
		img, okImg := item["img"].(string)
		if !okName || !okURL || !okImg {
			continue
		}
		out = append(out, Engine{Name: name, URL: link, Icon: img})
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func (s *Selector) save() {
	if s.store == nil {
		return
	}
	index := s.active
	e := s.engines[index]
	rec := persisted{
		EngineIndex:    &index,
		ThisSearch:     e.URL,
		ThisSearchIcon: e.Icon,
	}
	if s.restored {
		rec.Data = Clone(s.engines)
	}
	s.store.SaveJSON(s.opts.Key, rec)
}
