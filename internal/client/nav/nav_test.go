package nav

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vistaPrueba records every view call so tests can assert on ordering and
// exclusivity.
type vistaPrueba struct {
	mu             sync.Mutex
	paneles        map[string]bool
	activos        map[string]bool
	menu           string
	titulo         string
	notificaciones []string
}

func nuevaVista(paneles ...string) *vistaPrueba {
	v := &vistaPrueba{paneles: make(map[string]bool), activos: make(map[string]bool)}
	for _, p := range paneles {
		v.paneles[p] = true
	}
	return v
}

func (v *vistaPrueba) DeactivateAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.activos = make(map[string]bool)
}

func (v *vistaPrueba) ActivateSection(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.paneles[id] {
		return false
	}
	v.activos[id] = true
	return true
}

func (v *vistaPrueba) HighlightMenu(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.menu = id
}

func (v *vistaPrueba) SetTitle(titulo string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.titulo = titulo
}

func (v *vistaPrueba) Notify(nivel Nivel, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notificaciones = append(v.notificaciones, msg)
}

func (v *vistaPrueba) seccionesActivas() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, 0, len(v.activos))
	for id := range v.activos {
		out = append(out, id)
	}
	return out
}

// moduloPrueba is a scriptable section module.
type moduloPrueba struct {
	nombre string
	cargas int
	err    error
	onLoad func(ctx context.Context) error
}

func (m *moduloPrueba) Nombre() string { return m.nombre }

func (m *moduloPrueba) Load(ctx context.Context) error {
	m.cargas++
	if m.onLoad != nil {
		return m.onLoad(ctx)
	}
	return m.err
}

func (m *moduloPrueba) Invalidate() {}

func TestShowSection_ActivatesExactlyOnePanel(t *testing.T) {
	v := nuevaVista("dashboard", "usuarios", "gastos")
	c := New(v)

	c.ShowSection(context.Background(), "usuarios")
	assert.Equal(t, []string{"usuarios"}, v.seccionesActivas())

	c.ShowSection(context.Background(), "gastos")
	assert.Equal(t, []string{"gastos"}, v.seccionesActivas())
	assert.Equal(t, "gastos", v.menu)
	assert.Equal(t, "Control de Gastos", v.titulo)
	assert.Equal(t, "gastos", c.Current())
}

func TestShowSection_RepeatReloadsModule(t *testing.T) {
	v := nuevaVista("gastos")
	c := New(v)
	m := &moduloPrueba{nombre: "gastos"}
	c.Register(m)

	c.ShowSection(context.Background(), "gastos")
	c.ShowSection(context.Background(), "gastos")

	assert.Equal(t, 2, m.cargas, "re-navigating to the same section reloads it")
	assert.Equal(t, "gastos", c.Current())
}

func TestShowSection_UnknownPanelStillNavigates(t *testing.T) {
	v := nuevaVista("dashboard")
	c := New(v)

	assert.NotPanics(t, func() { c.ShowSection(context.Background(), "inexistente") })
	assert.Equal(t, "inexistente", c.Current())
	assert.Equal(t, "inexistente", v.titulo, "unknown sections fall back to the identifier as title")
}

func TestShowSection_SectionWithoutModuleIsFine(t *testing.T) {
	v := nuevaVista("fondos")
	c := New(v)

	c.ShowSection(context.Background(), "fondos")
	assert.Equal(t, "fondos", c.Current())
	assert.Empty(t, v.notificaciones)
}

func TestShowSection_LoadFailureNotifiesAndKeepsState(t *testing.T) {
	v := nuevaVista("cuotas")
	c := New(v)
	c.Register(&moduloPrueba{nombre: "cuotas", err: errors.New("red caida")})

	c.ShowSection(context.Background(), "cuotas")

	assert.Equal(t, "cuotas", c.Current())
	require.Len(t, v.notificaciones, 1)
	assert.Contains(t, v.notificaciones[0], "Cuotas Mensuales")
}

func TestShowSection_StaleLoadIsDiscarded(t *testing.T) {
	v := nuevaVista("cuotas", "gastos")
	c := New(v)

	iniciado := make(chan struct{})
	bloqueado := make(chan struct{})
	lenta := &moduloPrueba{nombre: "cuotas", onLoad: func(ctx context.Context) error {
		close(iniciado)
		<-bloqueado
		return errors.New("tarde y fallida")
	}}
	rapida := &moduloPrueba{nombre: "gastos"}
	c.Register(lenta)
	c.Register(rapida)

	done := make(chan struct{})
	go func() {
		c.ShowSection(context.Background(), "cuotas")
		close(done)
	}()

	// Navigate away while the first load is still blocked, then let it
	// finish. Its failure must not surface.
	<-iniciado
	c.ShowSection(context.Background(), "gastos")
	close(bloqueado)
	<-done

	assert.Equal(t, "gastos", c.Current())
	assert.Empty(t, v.notificaciones, "a superseded load must not notify")
}

func TestShowSection_AbortsPreviousLoadContext(t *testing.T) {
	v := nuevaVista("cuotas", "gastos")
	c := New(v)

	iniciado := make(chan struct{})
	cancelado := make(chan struct{})
	lenta := &moduloPrueba{nombre: "cuotas", onLoad: func(ctx context.Context) error {
		close(iniciado)
		<-ctx.Done()
		close(cancelado)
		return ctx.Err()
	}}
	c.Register(lenta)
	c.Register(&moduloPrueba{nombre: "gastos"})

	go c.ShowSection(context.Background(), "cuotas")
	<-iniciado
	c.ShowSection(context.Background(), "gastos")

	<-cancelado
}

func TestTituloDe(t *testing.T) {
	assert.Equal(t, "Panel Principal", TituloDe("dashboard"))
	assert.Equal(t, "otra", TituloDe("otra"))
}
