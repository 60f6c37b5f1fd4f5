package registry

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/event"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"go.uber.org/zap"
)

type fakeModule struct {
	info     plugin.PluginInfo
	initErr  error
	startErr error
	events   *[]string
}

func newFake(name string, deps ...string) *fakeModule {
	return &fakeModule{info: plugin.PluginInfo{
		Name:         name,
		Version:      "0.1.0",
		Dependencies: deps,
		APIVersion:   plugin.APIVersionCurrent,
	}}
}

func (m *fakeModule) Info() plugin.PluginInfo {
	return m.info
}

func (m *fakeModule) Init(context.Context, plugin.Dependencies) error {
	m.record("init")
	return m.initErr
}

func (m *fakeModule) Start(context.Context) error {
	m.record("start")
	return m.startErr
}

func (m *fakeModule) Stop(context.Context) error {
	m.record("stop")
	return nil
}

func (m *fakeModule) record(what string) {
	if m.events != nil {
		*m.events = append(*m.events, what+":"+m.info.Name)
	}
}

type routedModule struct{ *fakeModule }

func (routedModule) Routes() []plugin.Route {
	return []plugin.Route{{Method: http.MethodGet, Path: "/x", Handler: func(http.ResponseWriter, *http.Request) {}}}
}

func noDeps(string) plugin.Dependencies {
	return plugin.Dependencies{Logger: zap.NewNop()}
}

func TestRegister_rejects_duplicates_and_empty(t *testing.T) {
	r := New(zap.NewNop())
	if err := r.Register(newFake("cognition")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(newFake("cognition")); err == nil {
		t.Error("duplicate registration accepted")
	}
	if err := r.Register(newFake("")); err == nil {
		t.Error("empty name accepted")
	}
}

func TestLifecycle_order(t *testing.T) {
	var events []string
	cog := newFake("cognition")
	notify := newFake("notify", "cognition")
	ws := newFake("ws", "cognition")
	for _, m := range []*fakeModule{ws, notify, cog} {
		m.events = &events
	}

	r := New(zap.NewNop())
	for _, m := range []*fakeModule{ws, notify, cog} {
		if err := r.Register(m); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	ctx := context.Background()
	if err := r.InitAll(ctx, noDeps); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	r.StopAll(ctx)

	want := []string{
		"init:cognition", "init:notify", "init:ws",
		"start:cognition", "start:notify", "start:ws",
		"stop:ws", "stop:notify", "stop:cognition",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v\nwant     %v", events, want)
	}
}

func TestValidate_missing_dependency(t *testing.T) {
	t.Run("optional is disabled", func(t *testing.T) {
		r := New(zap.NewNop())
		r.Register(newFake("notify", "cognition"))
		r.Register(newFake("ws", "notify"))
		if err := r.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if !r.IsDisabled("notify") || !r.IsDisabled("ws") {
			t.Error("dependents of a missing module should be disabled")
		}
	})

	t.Run("required fails", func(t *testing.T) {
		m := newFake("cognition", "store")
		m.info.Required = true
		r := New(zap.NewNop())
		r.Register(m)
		if err := r.Validate(); err == nil {
			t.Error("expected error for required module with missing dependency")
		}
	})
}

func TestValidate_cycle(t *testing.T) {
	r := New(zap.NewNop())
	r.Register(newFake("a", "b"))
	r.Register(newFake("b", "a"))
	if err := r.Validate(); err == nil {
		t.Error("expected cycle error")
	}
}

func TestValidate_api_version(t *testing.T) {
	m := newFake("future")
	m.info.APIVersion = plugin.APIVersionCurrent + 1
	r := New(zap.NewNop())
	r.Register(m)
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !r.IsDisabled("future") {
		t.Error("module with unsupported API version should be disabled")
	}
}

func TestInitAll_failure(t *testing.T) {
	boom := errors.New("boom")

	optional := newFake("notify")
	optional.initErr = boom
	r := New(zap.NewNop())
	r.Register(optional)
	r.Validate()
	if err := r.InitAll(context.Background(), noDeps); err != nil {
		t.Fatalf("optional failure should not abort: %v", err)
	}
	if _, ok := r.Resolve("notify"); ok {
		t.Error("failed module still resolvable")
	}

	required := newFake("cognition")
	required.initErr = boom
	required.info.Required = true
	r = New(zap.NewNop())
	r.Register(required)
	r.Validate()
	if err := r.InitAll(context.Background(), noDeps); !errors.Is(err, boom) {
		t.Errorf("InitAll error = %v, want wrapped boom", err)
	}
}

func TestResolveByRole_and_routes(t *testing.T) {
	cog := newFake("cognition")
	cog.info.Roles = []string{"cognition"}
	r := New(zap.NewNop())
	r.Register(routedModule{cog})
	r.Register(newFake("notify"))
	r.Validate()

	if got := r.ResolveByRole("cognition"); len(got) != 1 || got[0].Info().Name != "cognition" {
		t.Errorf("ResolveByRole = %v", got)
	}
	routes := r.AllRoutes()
	if len(routes) != 1 || len(routes["cognition"]) != 1 {
		t.Errorf("AllRoutes = %v, want one cognition route", routes)
	}
}

type subscribedModule struct {
	*fakeModule
	seen *[]string
}

func (m subscribedModule) Subscriptions() []plugin.Subscription {
	return []plugin.Subscription{{
		Topic: "cognition.alert.created",
		Handler: func(_ context.Context, e plugin.Event) {
			*m.seen = append(*m.seen, e.Topic)
		},
	}}
}

func TestSubscribe(t *testing.T) {
	var seen []string
	r := New(zap.NewNop())
	r.Register(subscribedModule{fakeModule: newFake("notify"), seen: &seen})
	r.Validate()

	bus := event.NewBus(zap.NewNop())
	unsubscribe := r.Subscribe(bus)
	bus.Publish(context.Background(), plugin.Event{Topic: "cognition.alert.created"})
	bus.Publish(context.Background(), plugin.Event{Topic: "cognition.alert.read"})
	unsubscribe()
	bus.Publish(context.Background(), plugin.Event{Topic: "cognition.alert.created"})

	if !reflect.DeepEqual(seen, []string{"cognition.alert.created"}) {
		t.Errorf("seen = %v, want one delivery before unsubscribe", seen)
	}
}
