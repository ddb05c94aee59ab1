package application

import (
	"context"
	"strings"
	"time"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
	"github.com/rs/zerolog"
)

// Field is one attribute's input to the payload builder. Expand marks a
// scalar snapshot value whose "||" separators denote multiple values;
// pre-resolved lists (translated reference ids) are never expanded.
type Field struct {
	Values []string
	Expand bool
}

func ScalarField(value string) Field { return Field{Values: []string{value}, Expand: true} }

func ListField(values []string) Field { return Field{Values: values} }

// PayloadBuilder turns snapshot attribute values into a create/update
// payload for one object. Values are normalized per attribute kind; user,
// group and status values resolve against the destination site. A value
// that cannot resolve is handled per kind: reference misses drop the value,
// user/group/status misses drop the whole attribute so the destination
// keeps its current value.
type PayloadBuilder struct {
	gw  domain.Gateway
	log zerolog.Logger
}

func NewPayloadBuilder(gw domain.Gateway, log zerolog.Logger) *PayloadBuilder {
	return &PayloadBuilder{gw: gw, log: log}
}

func (b *PayloadBuilder) Build(ctx context.Context, objectTypeID string, data map[string]Field) (domain.ObjectPayload, error) {
	payload := domain.ObjectPayload{ObjectTypeID: objectTypeID}

	for name, field := range data {
		attr, err := b.gw.AttributeByName(ctx, objectTypeID, name)
		if err != nil {
			b.log.Warn().Str("attribute", name).Str("objectTypeId", objectTypeID).Msg("attribute not found, skipping")
			continue
		}

		values := field.Values
		if field.Expand && len(values) == 1 {
			values = strings.Split(values[0], "||")
		}

		attrPayload := domain.PayloadAttribute{ObjectTypeAttributeID: attr.ID}
		dropAttribute := false
		for _, value := range values {
			resolved, keep, dropAll := b.resolveValue(ctx, attr, value)
			if dropAll {
				dropAttribute = true
				break
			}
			if !keep {
				continue
			}
			attrPayload.ObjectAttributeValues = append(attrPayload.ObjectAttributeValues, domain.PayloadValue{Value: resolved})
		}
		if dropAttribute {
			continue
		}
		payload.Attributes = append(payload.Attributes, attrPayload)
	}

	return payload, nil
}

// resolveValue returns the destination-site form of one value. keep=false
// drops just this value; dropAll drops the whole attribute.
func (b *PayloadBuilder) resolveValue(ctx context.Context, attr domain.Attribute, value string) (resolved string, keep, dropAll bool) {
	switch attr.Type {
	case domain.KindDefault:
		kind := domain.DefaultNone
		if attr.DefaultType != nil {
			kind = attr.DefaultType.ID
		}
		switch kind {
		case domain.DefaultText, domain.DefaultTextArea:
			return value, true, false
		case domain.DefaultDate:
			return normalizeDate(value), true, false
		case domain.DefaultDateTime:
			return normalizeDateTime(value), true, false
		default:
			return NormalizeLegacyText(value), true, false
		}

	case domain.KindReference:
		// value is an already translated destination object id; the API
		// wants the object key.
		objects, err := b.gw.Objects(ctx, `objectId=`+value)
		if err != nil || len(objects) == 0 {
			b.log.Warn().Str("attribute", attr.Name).Str("value", value).Msg("referenced object not found, dropping value")
			return "", false, false
		}
		return objects[0].ObjectKey, true, false

	case domain.KindUser:
		accounts, err := b.gw.UserAccounts(ctx)
		if err == nil {
			if account, ok := matchUserAccount(accounts, value); ok {
				return account.AccountID, true, false
			}
		}
		b.log.Debug().Str("attribute", attr.Name).Str("value", value).Msg("user not found, dropping attribute")
		return "", false, true

	case domain.KindGroup:
		groups, err := b.gw.Groups(ctx)
		if err == nil {
			for _, group := range groups {
				if group.Name == value {
					return group.GroupID, true, false
				}
			}
		}
		b.log.Debug().Str("attribute", attr.Name).Str("value", value).Msg("group not found, dropping attribute")
		return "", false, true

	case domain.KindStatus:
		status, err := b.gw.StatusTypeByName(ctx, value)
		if err != nil {
			b.log.Debug().Str("attribute", attr.Name).Str("value", value).Msg("status not found, dropping attribute")
			return "", false, true
		}
		return status.ID, true, false
	}

	return NormalizeLegacyText(value), true, false
}

// matchUserAccount matches value against display name, then email address,
// then account id. The snapshot does not record which identity was
// exported, so whichever matches first wins.
func matchUserAccount(accounts []domain.UserAccount, value string) (domain.UserAccount, bool) {
	for _, account := range accounts {
		if account.DisplayName == value {
			return account, true
		}
		if account.EmailAddress == value {
			return account, true
		}
		if account.AccountID == value {
			return account, true
		}
	}
	return domain.UserAccount{}, false
}

// EscapeQuotes puts a backslash before every double quote that is not
// already preceded by one. Quotes that arrive escaped stay as they are.
// This is the quoting older exporters applied to free-text values before
// hand-assembling JSON payloads; NormalizeLegacyText reverses it. The
// current write path serializes structurally, so nothing calls it when
// building payloads, but it stays exported as the reference form of the
// legacy encoding.
func EscapeQuotes(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			out.WriteByte('\\')
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

// NormalizeLegacyText reverses the escaping that older exports applied to
// free-text values: backslash sequences decode to the character they
// protect, bare quotes pass through, and a backslash before anything else
// is kept literally.
func NormalizeLegacyText(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case '"', '\\', '/':
			out.WriteByte(s[i+1])
			i++
		case 'n':
			out.WriteByte('\n')
			i++
		case 't':
			out.WriteByte('\t')
			i++
		case 'r':
			out.WriteByte('\r')
			i++
		default:
			out.WriteByte(s[i])
		}
	}
	return out.String()
}

// Non-padded layout fields also accept zero-padded components, so each
// numeric layout covers "2022-3-1" and "2022-03-01" alike.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2-1-2006",
	"2/1/2006",
	"2006-01-02T15:04:05.000Z0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2 Jan 2006",
	"Jan 2, 2006",
}

func parseFlexibleDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeDate renders any recognized date form as YYYY-MM-DD. An
// unparseable value passes through so the remote validation reports it.
func normalizeDate(value string) string {
	if t, ok := parseFlexibleDate(value); ok {
		return t.Format("2006-01-02")
	}
	return value
}

// normalizeDateTime renders a timestamp in the local zone with millisecond
// precision, the form the API accepts for date-time attributes.
func normalizeDateTime(value string) string {
	if t, ok := parseFlexibleDate(value); ok {
		local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
		return local.Format("2006-01-02T15:04:05.000-07:00")
	}
	return value
}
