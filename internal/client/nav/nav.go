// Package nav implements the section state machine: one active content
// panel at a time, a title, a highlighted menu entry and a dispatch to the
// section's data module.
package nav

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hvigueras/edificio-admin/internal/client/modules"
)

// SeccionInicial is the landing section.
const SeccionInicial = "dashboard"

// Nivel classifies a user-facing notification.
type Nivel int

const (
	NivelInfo Nivel = iota
	NivelError
)

// View is the presentation surface the controller drives. Implementations
// render however they like (HTML panels, terminal output, test doubles).
type View interface {
	// DeactivateAll clears the active state of every panel. Idempotent.
	DeactivateAll()

	// ActivateSection marks the panel for id active, reporting whether a
	// matching panel exists.
	ActivateSection(id string) bool

	// HighlightMenu moves the menu highlight to id.
	HighlightMenu(id string)

	// SetTitle updates the page title.
	SetTitle(titulo string)

	// Notify shows a transient message to the user.
	Notify(nivel Nivel, msg string)
}

// titulos maps section identifiers to display titles. Unknown sections
// fall back to the identifier itself.
var titulos = map[string]string{
	"dashboard":     "Panel Principal",
	"usuarios":      "Gestión de Usuarios",
	"cuotas":        "Cuotas Mensuales",
	"gastos":        "Control de Gastos",
	"fondos":        "Fondos del Edificio",
	"anuncios":      "Anuncios",
	"cierres":       "Cierres Contables",
	"parcialidades": "Parcialidades",
}

// TituloDe returns the display title for a section.
func TituloDe(id string) string {
	if t, ok := titulos[id]; ok {
		return t
	}
	return id
}

// Controller is the navigation state machine. Safe for concurrent use; a
// generation counter makes sure a load that finished after the user moved
// on is discarded instead of rendered.
type Controller struct {
	mu         sync.Mutex
	view       View
	registry   map[string]modules.Module
	current    string
	generation uint64
	cancel     context.CancelFunc
}

// New creates a controller starting at the dashboard section.
func New(view View) *Controller {
	return &Controller{
		view:     view,
		registry: make(map[string]modules.Module),
		current:  SeccionInicial,
	}
}

// Register adds a module under its own section name. Modules are optional;
// sections without one simply render nothing.
func (c *Controller) Register(m modules.Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry[m.Nombre()] = m
}

// Current returns the committed section identifier.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// ShowSection transitions to the named section: exactly one panel active,
// menu and title updated, the section's module loaded. Re-entrant calls
// with the same id re-trigger the load. A missing panel or module degrades
// gracefully; a load failure is surfaced as a notification and leaves
// navigation state intact.
func (c *Controller) ShowSection(ctx context.Context, id string) {
	c.mu.Lock()
	c.generation++
	gen := c.generation

	// Abort the previous generation's in-flight load, if any.
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.view.DeactivateAll()
	if !c.view.ActivateSection(id) {
		log.Warn().Str("seccion", id).Msg("Seccion sin panel")
	}
	c.view.HighlightMenu(id)
	c.view.SetTitle(TituloDe(id))

	mod := c.registry[id]
	c.current = id
	c.mu.Unlock()
	defer cancel()

	if mod == nil {
		return
	}

	err := mod.Load(ctx)

	c.mu.Lock()
	stale := gen != c.generation
	c.mu.Unlock()
	if stale {
		// A newer navigation superseded this load; its outcome is
		// discarded rather than rendered.
		log.Debug().Str("seccion", id).Msg("Carga obsoleta descartada")
		return
	}

	if err != nil {
		log.Error().Err(err).Str("seccion", id).Msg("Error al cargar seccion")
		c.view.Notify(NivelError, fmt.Sprintf("No se pudo cargar %s", TituloDe(id)))
	}
}
