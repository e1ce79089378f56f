package user

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/infrastructure/gateway"
	"github.com/chatimovel/painel-server/internal/utils/platformerrors"
)

type fakeGateway struct {
	getJSON    string
	getCalls   int
	getPaths   []string
	postPath   string
	postBody   map[string]any
	patchPath  string
	patchBody  map[string]any
	patchCalls int
}

func (g *fakeGateway) Get(_ context.Context, path string, out any) error {
	g.getCalls++
	g.getPaths = append(g.getPaths, path)
	return json.Unmarshal([]byte(g.getJSON), out)
}

func (g *fakeGateway) Post(_ context.Context, path string, body, out any) error {
	g.postPath = path
	g.postBody = body.(map[string]any)
	created, _ := json.Marshal([]map[string]any{g.postBody})
	return json.Unmarshal(created, out)
}

func (g *fakeGateway) Patch(_ context.Context, path string, body any) error {
	g.patchCalls++
	g.patchPath = path
	g.patchBody = body.(map[string]any)
	return nil
}

type fakeSignup struct {
	signups int
	resp    *gateway.SignupResponse
}

func (s *fakeSignup) SignUp(_ context.Context, _, _ string, _ map[string]any) (*gateway.SignupResponse, error) {
	s.signups++
	return s.resp, nil
}

func newTestService(gw *fakeGateway, auth *fakeSignup) *Service {
	return NewService(gw, auth, zerolog.Nop())
}

func TestListExcludesSoftDeleted(t *testing.T) {
	gw := &fakeGateway{getJSON: `[]`}
	svc := newTestService(gw, &fakeSignup{})

	if _, err := svc.List(context.Background(), ListOptions{Type: TypeWhatsApp}); err != nil {
		t.Fatal(err)
	}
	path := gw.getPaths[0]
	if !strings.Contains(path, "data_exclusao=is.null") {
		t.Fatalf("soft-deleted rows not excluded: %q", path)
	}
	if !strings.Contains(path, "tipo=eq.usuario") {
		t.Fatalf("platform users not excluded: %q", path)
	}
}

func TestListWithoutTypeCoversAllUsers(t *testing.T) {
	gw := &fakeGateway{getJSON: `[]`}
	svc := newTestService(gw, &fakeSignup{})

	if _, err := svc.List(context.Background(), ListOptions{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(gw.getPaths[0], "tipo=eq.") {
		t.Fatalf("unexpected type filter: %q", gw.getPaths[0])
	}
}

func TestListRejectsUnknownSortColumn(t *testing.T) {
	gw := &fakeGateway{getJSON: `[]`}
	svc := newTestService(gw, &fakeSignup{})

	_, err := svc.List(context.Background(), ListOptions{Sort: "salario"})
	if err == nil {
		t.Fatal("unknown sort column accepted")
	}
	perr := platformerrors.GetPlatformError(err)
	if perr == nil || perr.Type != platformerrors.ErrorTypeValidation {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCreateStoresUnmaskedPhone(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, &fakeSignup{})

	created, err := svc.Create(context.Background(), CreateInput{
		Name:  "Maria Souza",
		Phone: "+55 (11) 99988-7766",
	})
	if err != nil {
		t.Fatal(err)
	}
	if gw.postBody["telefone"] != "5511999887766" {
		t.Fatalf("phone not unmasked: %v", gw.postBody["telefone"])
	}
	if created.Name != "Maria Souza" {
		t.Fatalf("created = %+v", created)
	}
}

func TestCreateRejectsBadPhoneLengths(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, &fakeSignup{})

	for _, raw := range []string{"123", "12345678901234"} {
		_, err := svc.Create(context.Background(), CreateInput{Name: "x", Phone: raw})
		if err == nil {
			t.Fatalf("phone %q accepted", raw)
		}
		perr := platformerrors.GetPlatformError(err)
		if perr == nil || perr.Type != platformerrors.ErrorTypeValidation {
			t.Fatalf("phone %q: unexpected error %v", raw, err)
		}
	}
	if gw.postPath != "" {
		t.Fatal("invalid phone must not reach the backend")
	}
}

func TestSoftDeleteStampsInsteadOfRemoving(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(gw, &fakeSignup{})

	if err := svc.SoftDelete(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	if gw.patchPath != "usuarios?id=eq.u1" {
		t.Fatalf("patch path = %q", gw.patchPath)
	}
	if gw.patchBody["data_exclusao"] == nil {
		t.Fatalf("missing deletion stamp: %+v", gw.patchBody)
	}
	if gw.patchBody["ativo"] != false {
		t.Fatalf("deleted user left active: %+v", gw.patchBody)
	}
}

func TestOperatorIDIsCachedPerProcess(t *testing.T) {
	gw := &fakeGateway{getJSON: `[{"id": "op-42"}]`}
	svc := newTestService(gw, &fakeSignup{})

	for i := 0; i < 3; i++ {
		id, err := svc.OperatorID(context.Background(), "auth-1")
		if err != nil {
			t.Fatal(err)
		}
		if id != "op-42" {
			t.Fatalf("id = %q", id)
		}
	}
	if gw.getCalls != 1 {
		t.Fatalf("lookup must hit the backend once, got %d", gw.getCalls)
	}
}

func TestOperatorIDUnknownSubject(t *testing.T) {
	gw := &fakeGateway{getJSON: `[]`}
	svc := newTestService(gw, &fakeSignup{})

	if _, err := svc.OperatorID(context.Background(), "ghost"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreatePlatformRegistersThenInserts(t *testing.T) {
	gw := &fakeGateway{}
	auth := &fakeSignup{resp: &gateway.SignupResponse{User: &gateway.AuthUser{ID: "auth-9"}}}
	svc := newTestService(gw, auth)

	created, err := svc.CreatePlatform(context.Background(), CreatePlatformInput{
		Name:     "Ana Operadora",
		Email:    "ana@example.com",
		Password: "longenough",
		Role:     RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}
	if auth.signups != 1 {
		t.Fatalf("signups = %d", auth.signups)
	}
	if gw.postPath != "usuarios" {
		t.Fatalf("post path = %q", gw.postPath)
	}
	if gw.postBody["id_auth"] != "auth-9" {
		t.Fatalf("auth id not linked: %+v", gw.postBody)
	}
	if gw.postBody["tipo"] != TypePlatform {
		t.Fatalf("type not set: %+v", gw.postBody)
	}
	if created.Role != RoleAdmin {
		t.Fatalf("created = %+v", created)
	}
}

func TestCreatePlatformValidatesBeforeSignup(t *testing.T) {
	gw := &fakeGateway{}
	auth := &fakeSignup{}
	svc := newTestService(gw, auth)

	cases := []CreatePlatformInput{
		{Name: "Ana", Email: "not-an-email", Password: "longenough", Role: RoleAdmin},
		{Name: "Ana", Email: "ana@example.com", Password: "short", Role: RoleAdmin},
		{Name: "Ana", Email: "ana@example.com", Password: "longenough", Role: "gerente"},
	}
	for _, in := range cases {
		if _, err := svc.CreatePlatform(context.Background(), in); err == nil {
			t.Fatalf("input %+v accepted", in)
		}
	}
	if auth.signups != 0 {
		t.Fatal("invalid input must not reach the auth provider")
	}
}
