package ws_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/ws"
)

func startHub(t *testing.T) *ws.Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub(nil)
	go hub.Run(ctx)
	return hub
}

func TestHub_NotifyMessageLlegaATodasLasConexiones(t *testing.T) {
	hub := startHub(t)
	a := ws.NewClient(hub, nil, "u1")
	b := ws.NewClient(hub, nil, "u1")
	other := ws.NewClient(hub, nil, "u2")
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	require.True(t, hub.Register(other))
	require.Eventually(t, func() bool { return hub.IsUserOnline("u1") && hub.IsUserOnline("u2") }, time.Second, 5*time.Millisecond)

	hub.NotifyMessage("u1", dto.MessageResponse{ID: "m1", SenderID: "u2", ReceiverID: "u1", Body: "hola"})

	for _, c := range []*ws.Client{a, b} {
		select {
		case raw := <-c.Send:
			var ev ws.Event
			require.NoError(t, json.Unmarshal(raw, &ev))
			assert.Equal(t, "message", ev.Type)
			require.NotNil(t, ev.Message)
			assert.Equal(t, "hola", ev.Message.Body)
		case <-time.After(time.Second):
			t.Fatal("el mensaje no llegó")
		}
	}
	assert.Empty(t, other.Send, "u2 no debe recibir mensajes de u1")
}

func TestHub_UnregisterCierraCanal(t *testing.T) {
	hub := startHub(t)
	c := ws.NewClient(hub, nil, "u1")
	require.True(t, hub.Register(c))
	hub.Unregister(c)
	hub.Unregister(c) // dos bajas no deben cerrar dos veces

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.False(t, hub.IsUserOnline("u1"))
}

func TestHub_ClienteLentoSeDesconecta(t *testing.T) {
	hub := startHub(t)
	c := ws.NewClient(hub, nil, "u1")
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.IsUserOnline("u1") }, time.Second, 5*time.Millisecond)

	for i := 0; i < cap(c.Send); i++ {
		assert.Equal(t, 1, hub.SendToUser("u1", []byte("x")))
	}
	assert.Equal(t, 0, hub.SendToUser("u1", []byte("desborde")))
	assert.False(t, hub.IsUserOnline("u1"))
}

func TestHub_SinConexionesNoFalla(t *testing.T) {
	hub := startHub(t)
	assert.NotPanics(t, func() {
		hub.NotifyMessage("nadie", dto.MessageResponse{ID: "m"})
	})
}

func TestHub_TrasPararNoBloquea(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub(nil)
	go hub.Run(ctx)

	c := ws.NewClient(hub, nil, "u1")
	require.True(t, hub.Register(c))
	require.Eventually(t, func() bool { return hub.IsUserOnline("u1") }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("Run no terminó al cancelar el contexto")
	}
	_, ok := <-c.Send
	assert.False(t, ok, "la parada cierra las conexiones abiertas")

	returned := make(chan struct{})
	go func() {
		hub.Unregister(c) // lo que hace ReadPump al cerrarse el socket
		assert.False(t, hub.Register(ws.NewClient(hub, nil, "u2")), "un handshake tardío no debe quedar colgado")
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Register/Unregister bloquean después de parar el hub")
	}
	assert.False(t, hub.IsUserOnline("u2"))
}
