package facade

import "strings"

type Identify struct {
	*Facade
}

func NewIdentify(obj map[string]any) *Identify {
	return &Identify{newFacade(TypeIdentify, obj)}
}

func (m *Identify) Traits() map[string]any {
	return m.mapField("traits")
}

// Email returns traits.email, falling back to the userId when it looks like an address.
func (m *Identify) Email() string {
	if email, ok := m.Traits()["email"].(string); ok {
		return email
	}
	if id := m.UserID(); strings.Contains(id, "@") {
		return id
	}
	return ""
}

type Track struct {
	*Facade
}

func NewTrack(obj map[string]any) *Track {
	return &Track{newFacade(TypeTrack, obj)}
}

func (m *Track) Event() string {
	return m.str("event")
}

func (m *Track) Properties() map[string]any {
	return m.mapField("properties")
}

// Revenue returns properties.revenue as a float, or 0 when absent.
func (m *Track) Revenue() float64 {
	return m.Field("properties.revenue").Float()
}

type Page struct {
	*Facade
}

func NewPage(obj map[string]any) *Page {
	return &Page{newFacade(TypePage, obj)}
}

func (m *Page) Name() string {
	return m.str("name")
}

func (m *Page) Properties() map[string]any {
	return m.mapField("properties")
}

func (m *Page) URL() string {
	return m.Field("properties.url").String()
}

type Screen struct {
	*Facade
}

func NewScreen(obj map[string]any) *Screen {
	return &Screen{newFacade(TypeScreen, obj)}
}

func (m *Screen) Name() string {
	return m.str("name")
}

func (m *Screen) Properties() map[string]any {
	return m.mapField("properties")
}

type Group struct {
	*Facade
}

func NewGroup(obj map[string]any) *Group {
	return &Group{newFacade(TypeGroup, obj)}
}

func (m *Group) GroupID() string {
	return m.str("groupId")
}

func (m *Group) Traits() map[string]any {
	return m.mapField("traits")
}

type Alias struct {
	*Facade
}

func NewAlias(obj map[string]any) *Alias {
	return &Alias{newFacade(TypeAlias, obj)}
}

func (m *Alias) PreviousID() string {
	return m.str("previousId")
}
