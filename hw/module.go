package hw

// A Module is a node of the statically built hardware tree. Its Tick runs
// once per cycle and may only talk to other modules through channels and
// registers.
type Module interface {
	Name() string
	Tick()
	Children() []Module
}

// A Terminal is a module that can end the run by reporting a finished
// outcome.
type Terminal interface {
	Module
	Outcome() Outcome
}

// ModuleBase provides the name and the child list of a module.
type ModuleBase struct {
	name     string
	children []Module
}

// NewModuleBase creates a ModuleBase.
func NewModuleBase(name string) *ModuleBase {
	if name == "" {
		panic("module must have a name")
	}

	return &ModuleBase{name: name}
}

// Name returns the name of the module.
func (m *ModuleBase) Name() string {
	return m.name
}

// Children returns the owned modules in declaration order.
func (m *ModuleBase) Children() []Module {
	return m.children
}

// AddChild appends an owned module. Children are ticked after their parent
// in the order they are added.
func (m *ModuleBase) AddChild(child Module) {
	m.children = append(m.children, child)
}

// Walk visits the tree in pre-order.
func Walk(root Module, fn func(m Module)) {
	fn(root)

	for _, c := range root.Children() {
		Walk(c, fn)
	}
}
