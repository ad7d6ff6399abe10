package pattern

import "github.com/dmrimawi/patroid/subpattern"

// Pattern name constants, matching the table in the design-pattern rules.
const (
	Singleton              = "Singleton"
	Template               = "Template"
	Composite              = "Composite"
	Adapter                = "Adapter"
	Bridge                 = "Bridge"
	Proxy                  = "Proxy"
	Decorator              = "Decorator"
	Flyweight              = "Flyweight"
	Facade                 = "Facade"
	AbstractFactory        = "AbstractFactory"
	Builder                = "Builder"
	Factory                = "Factory"
	Prototype              = "Prototype"
	ChainOfResponsibility  = "ChainOfResponsibility"
	Command                = "Command"
	Interpreter            = "Interpreter"
	Iterator               = "Iterator"
	Mediator               = "Mediator"
	Memento                = "Memento"
	Observer               = "Observer"
	State                  = "State"
	Strategy               = "Strategy"
	Visitor                = "Visitor"
)

// Detector derives design-pattern occurrences from a sub-pattern Set. It
// holds no state between calls.
type Detector struct{}

// NewDetector constructs a pattern detector.
func NewDetector() *Detector { return &Detector{} }

// Detect runs all 23 pattern rules against sets and returns one entry per
// pattern name, even when its occurrence list is empty.
func (d *Detector) Detect(sets subpattern.Set) map[string][]Occurrence {
	return map[string][]Occurrence{
		Singleton:             detectSingleton(sets),
		Template:              detectTemplate(sets),
		Composite:             detectComposite(sets),
		Adapter:               detectAdapter(sets),
		Bridge:                detectBridge(sets),
		Proxy:                 detectProxy(sets),
		Decorator:             detectDecorator(sets),
		Flyweight:             detectFlyweight(sets),
		Facade:                detectFacade(sets),
		AbstractFactory:       detectAbstractFactory(sets),
		Builder:               detectBuilder(sets),
		Factory:               detectFactory(sets),
		Prototype:             detectPrototype(sets),
		ChainOfResponsibility: detectChainOfResponsibility(sets),
		Command:               detectCommand(sets),
		Interpreter:           detectInterpreter(sets),
		Iterator:              detectIterator(sets),
		Mediator:              detectMediator(sets),
		Memento:               detectMemento(sets),
		Observer:              detectObserver(sets),
		State:                 detectState(sets),
		Strategy:              detectStrategy(sets),
		Visitor:               detectVisitor(sets),
	}
}
