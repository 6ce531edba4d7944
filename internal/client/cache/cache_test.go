package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reloj is a manual clock for tests.
type reloj struct {
	t time.Time
}

func (r *reloj) now() time.Time { return r.t }

func (r *reloj) avanzar(d time.Duration) { r.t = r.t.Add(d) }

func nuevoConReloj(ttl time.Duration) (*Cache, *reloj) {
	r := &reloj{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewWithClock(ttl, r.now), r
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := nuevoConReloj(time.Minute)
	key := Key{Entity: "gastos", Method: "GET", Path: "/gastos"}

	c.Set(key, []byte(`{"ok":true}`))

	payload, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, `{"ok":true}`, string(payload))
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c, _ := nuevoConReloj(time.Minute)

	_, ok := c.Get(Key{Entity: "gastos", Method: "GET", Path: "/gastos"})
	assert.False(t, ok)
}

func TestCache_ExpiredEntryIsRemoved(t *testing.T) {
	c, r := nuevoConReloj(time.Minute)
	key := Key{Entity: "cuotas", Method: "GET", Path: "/cuotas"}

	c.Set(key, []byte("datos"))
	r.avanzar(time.Minute)

	_, ok := c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry must be deleted, not just hidden")
}

func TestCache_EntryJustUnderTTLStillHits(t *testing.T) {
	c, r := nuevoConReloj(time.Minute)
	key := Key{Entity: "cuotas", Method: "GET", Path: "/cuotas"}

	c.Set(key, []byte("datos"))
	r.avanzar(time.Minute - time.Second)

	_, ok := c.Get(key)
	assert.True(t, ok)
}

func TestCache_KeysDifferByBody(t *testing.T) {
	c, _ := nuevoConReloj(time.Minute)
	a := Key{Entity: "cuotas", Method: "GET", Path: "/cuotas", Body: ""}
	b := Key{Entity: "cuotas", Method: "GET", Path: "/cuotas", Body: `{"departamento":"101"}`}

	c.Set(a, []byte("todas"))
	c.Set(b, []byte("filtradas"))

	va, ok := c.Get(a)
	require.True(t, ok)
	vb, ok := c.Get(b)
	require.True(t, ok)
	assert.NotEqual(t, string(va), string(vb))
}

func TestCache_InvalidateRemovesOnlyMatchingEntity(t *testing.T) {
	c, _ := nuevoConReloj(time.Minute)
	gastos := Key{Entity: "gastos", Method: "GET", Path: "/gastos"}
	usuarios := Key{Entity: "usuarios", Method: "GET", Path: "/usuarios"}

	c.Set(gastos, []byte("g"))
	c.Set(usuarios, []byte("u"))

	c.Invalidate("gastos")

	_, ok := c.Get(gastos)
	assert.False(t, ok)
	_, ok = c.Get(usuarios)
	assert.True(t, ok, "invalidating gastos must not touch usuarios")
}

func TestCache_InvalidateMatchesExactTag(t *testing.T) {
	c, _ := nuevoConReloj(time.Minute)
	cuota := Key{Entity: "cuota", Method: "GET", Path: "/cuota"}
	config := Key{Entity: "cuotas-config", Method: "GET", Path: "/cuotas-config"}

	c.Set(cuota, []byte("a"))
	c.Set(config, []byte("b"))

	c.Invalidate("cuota")

	_, ok := c.Get(config)
	assert.True(t, ok, "prefix-similar entity tags must survive")
}

func TestCache_SweepRemovesOnlyExpired(t *testing.T) {
	c, r := nuevoConReloj(time.Minute)
	vieja := Key{Entity: "fondos", Method: "GET", Path: "/fondos"}
	c.Set(vieja, []byte("v"))

	r.avanzar(30 * time.Second)
	nueva := Key{Entity: "anuncios", Method: "GET", Path: "/anuncios"}
	c.Set(nueva, []byte("n"))

	r.avanzar(31 * time.Second)
	c.Sweep()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(nueva)
	assert.True(t, ok)
}

func TestCache_SetOverwrites(t *testing.T) {
	c, r := nuevoConReloj(time.Minute)
	key := Key{Entity: "fondos", Method: "GET", Path: "/fondos"}

	c.Set(key, []byte("antes"))
	r.avanzar(59 * time.Second)
	c.Set(key, []byte("despues"))
	r.avanzar(30 * time.Second)

	payload, ok := c.Get(key)
	require.True(t, ok, "overwrite must refresh the timestamp")
	assert.Equal(t, "despues", string(payload))
}

func TestCache_DefaultTTLWhenNonPositive(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.StartSweep()
	c.Close()
	assert.NotPanics(t, func() { c.Close() })
}
