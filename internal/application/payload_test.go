package application

import (
	"context"
	"strings"
	"testing"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
	"github.com/rs/zerolog"
)

func TestEscapeQuotes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`a "b" c`, `a \"b\" c`},
		{`a \"b\" c`, `a \"b\" c`},
		{`"a \"b\" c\`, `\"a \"b\" c\`},
		{`\a \"b\" c"`, `\a \"b\" c\"`},
	}
	for _, tc := range cases {
		if got := EscapeQuotes(tc.in); got != tc.want {
			t.Fatalf("EscapeQuotes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLegacyText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`some value with "quoted text" inside"`, `some value with "quoted text" inside"`},
		{`some value with escaped \"quoted text\" inside`, `some value with escaped "quoted text" inside`},
		{` \"escaped\" mixed with \"quoted"`, ` "escaped" mixed with "quoted"`},
		{`line\nbreak and tab\there`, "line\nbreak and tab\there"},
		{`double\\backslash`, `double\backslash`},
		{`trailing backslash\`, `trailing backslash\`},
	}
	for _, tc := range cases {
		if got := NormalizeLegacyText(tc.in); got != tc.want {
			t.Fatalf("NormalizeLegacyText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func selectGateway() *fakeGateway {
	gw := newFakeGateway()
	selectKind := domain.DefaultSelect
	textKind := domain.DefaultText
	dateKind := domain.DefaultDate
	dateTimeKind := domain.DefaultDateTime
	gw.attributes["t1"] = []domain.Attribute{
		{ID: "a-select", Name: "Tier", Type: domain.KindDefault, DefaultType: &domain.DefaultType{ID: selectKind}},
		{ID: "a-text", Name: "Notes", Type: domain.KindDefault, DefaultType: &domain.DefaultType{ID: textKind}},
		{ID: "a-date", Name: "Purchased", Type: domain.KindDefault, DefaultType: &domain.DefaultType{ID: dateKind}},
		{ID: "a-dt", Name: "LastSeen", Type: domain.KindDefault, DefaultType: &domain.DefaultType{ID: dateTimeKind}},
		{ID: "a-user", Name: "Owner", Type: domain.KindUser},
		{ID: "a-group", Name: "Admins", Type: domain.KindGroup},
		{ID: "a-status", Name: "State", Type: domain.KindStatus},
		{ID: "a-ref", Name: "Host", Type: domain.KindReference},
	}
	gw.users = []domain.UserAccount{{AccountID: "acc-1", DisplayName: "Jane Doe", EmailAddress: "jane@example.com"}}
	gw.groups = []domain.Group{{GroupID: "grp-1", Name: "jira-admins"}}
	gw.globalStatuses = []domain.StatusType{{ID: "st-1", Name: "Running", Category: 1}}
	gw.objects["7001"] = domain.ObjectInstance{ID: "7001", ObjectKey: "NEW-7001", ObjectType: domain.ObjectRef{ID: "t9"}}
	return gw
}

func buildOne(t *testing.T, gw *fakeGateway, name string, field Field) (domain.ObjectPayload, []domain.PayloadValue) {
	t.Helper()
	b := NewPayloadBuilder(gw, zerolog.Nop())
	payload, err := b.Build(context.Background(), "t1", map[string]Field{name: field})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, attr := range payload.Attributes {
		return payload, attr.ObjectAttributeValues
	}
	return payload, nil
}

func TestBuildPreservesQuotedText(t *testing.T) {
	gw := selectGateway()
	cases := []struct {
		in   string
		want string
	}{
		{`some value with "quoted text" inside"`, `some value with "quoted text" inside"`},
		{`some value with escaped \"quoted text\" inside`, `some value with escaped "quoted text" inside`},
		{` \"escaped\" mixed with \"quoted"`, ` "escaped" mixed with "quoted"`},
	}
	for _, tc := range cases {
		_, values := buildOne(t, gw, "Tier", ScalarField(tc.in))
		if len(values) != 1 || values[0].Value != tc.want {
			t.Fatalf("Tier %q produced %v, want %q", tc.in, values, tc.want)
		}
	}
}

func TestBuildTextPassesThrough(t *testing.T) {
	gw := selectGateway()
	in := `raw \"text\" stays as exported`
	_, values := buildOne(t, gw, "Notes", ScalarField(in))
	if len(values) != 1 || values[0].Value != in {
		t.Fatalf("Notes produced %v, want %q", values, in)
	}
}

func TestBuildMultiValueSplit(t *testing.T) {
	gw := selectGateway()
	_, values := buildOne(t, gw, "Tier", ScalarField("Gold||Silver||Bronze"))
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %v", values)
	}
	if values[0].Value != "Gold" || values[2].Value != "Bronze" {
		t.Fatalf("unexpected expansion: %v", values)
	}

	// Pre-resolved lists never expand.
	_, values = buildOne(t, gw, "Tier", ListField([]string{"Gold||Silver"}))
	if len(values) != 1 || values[0].Value != "Gold||Silver" {
		t.Fatalf("list field was expanded: %v", values)
	}
}

func TestBuildNormalizesDates(t *testing.T) {
	gw := selectGateway()
	for _, in := range []string{"2022-04-03", "2022/04/03"} {
		_, values := buildOne(t, gw, "Purchased", ScalarField(in))
		if len(values) != 1 || values[0].Value != "2022-04-03" {
			t.Fatalf("Purchased %q produced %v", in, values)
		}
	}

	// Exports written by older clients carry non-padded components.
	for _, in := range []string{"2022-3-1", "2022/3/1"} {
		_, values := buildOne(t, gw, "Purchased", ScalarField(in))
		if len(values) != 1 || values[0].Value != "2022-03-01" {
			t.Fatalf("Purchased %q produced %v", in, values)
		}
	}

	_, values := buildOne(t, gw, "LastSeen", ScalarField("2023-05-01T10:30:00.000Z"))
	if len(values) != 1 || !strings.HasPrefix(values[0].Value, "2023-05-01T10:30:00.000") {
		t.Fatalf("LastSeen produced %v", values)
	}
	if len(values[0].Value) == len("2023-05-01T10:30:00.000") {
		t.Fatalf("LastSeen missing zone offset: %q", values[0].Value)
	}
}

func TestBuildResolvesUserGroupStatus(t *testing.T) {
	gw := selectGateway()

	_, values := buildOne(t, gw, "Owner", ScalarField("Jane Doe"))
	if len(values) != 1 || values[0].Value != "acc-1" {
		t.Fatalf("Owner by display name produced %v", values)
	}
	_, values = buildOne(t, gw, "Owner", ScalarField("jane@example.com"))
	if len(values) != 1 || values[0].Value != "acc-1" {
		t.Fatalf("Owner by email produced %v", values)
	}

	_, values = buildOne(t, gw, "Admins", ScalarField("jira-admins"))
	if len(values) != 1 || values[0].Value != "grp-1" {
		t.Fatalf("Admins produced %v", values)
	}

	_, values = buildOne(t, gw, "State", ScalarField("Running"))
	if len(values) != 1 || values[0].Value != "st-1" {
		t.Fatalf("State produced %v", values)
	}
}

func TestBuildDropsAttributeOnUserMiss(t *testing.T) {
	gw := selectGateway()
	payload, _ := buildOne(t, gw, "Owner", ScalarField("Nobody Known"))
	if len(payload.Attributes) != 0 {
		t.Fatalf("expected whole attribute dropped, got %v", payload.Attributes)
	}
}

func TestBuildDropsOnlyMissingReferenceValues(t *testing.T) {
	gw := selectGateway()
	payload, values := buildOne(t, gw, "Host", ListField([]string{"7001", "404"}))
	if len(payload.Attributes) != 1 {
		t.Fatalf("reference attribute should survive: %v", payload.Attributes)
	}
	if len(values) != 1 || values[0].Value != "NEW-7001" {
		t.Fatalf("expected the resolved object key only, got %v", values)
	}
}

func TestBuildSkipsUnknownAttributes(t *testing.T) {
	gw := selectGateway()
	payload, _ := buildOne(t, gw, "NoSuchAttribute", ScalarField("x"))
	if len(payload.Attributes) != 0 {
		t.Fatalf("unknown attribute should be skipped, got %v", payload.Attributes)
	}
}
