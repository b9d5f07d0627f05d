package grid

import (
	"context"
	"regexp"

	"gridsearch/internal/core/apperror"
	"gridsearch/internal/domain/search"
	"gridsearch/pkg/logger"
)

// Drop reasons reported to the DropObserver.
const (
	DropUnsupportedKind = "unsupported_kind"
	DropMissingValue    = "missing_value"
	DropIncompleteRange = "incomplete_range"
	DropEmptySet        = "empty_set"
)

// DropObserver is notified each time a native filter state is discarded.
type DropObserver interface {
	FilterDropped(reason string)
}

// Translator maps native filter states onto search.FilterCondition.
// It never fails: states it cannot map are logged and dropped.
type Translator struct {
	log      *logger.Logger
	observer DropObserver
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithDropObserver reports every dropped state to o.
func WithDropObserver(o DropObserver) TranslatorOption {
	return func(t *Translator) {
		t.observer = o
	}
}

// NewTranslator creates a translator that logs diagnostics through log.
func NewTranslator(log *logger.Logger, opts ...TranslatorOption) *Translator {
	t := &Translator{log: log.WithComponent("filter_translator")}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

// TruncateDate strips the time of day from strings starting with YYYY-MM-DD.
// Other values are returned unchanged.
func TruncateDate(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if m := datePrefix.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return v
}

// FieldTypes maps column keys to the backend field type of the column.
type FieldTypes map[string]search.FieldType

// FieldTypesOf indexes descriptors by key.
func FieldTypesOf(descriptors []search.FieldDescriptor) FieldTypes {
	types := make(FieldTypes, len(descriptors))
	for _, d := range descriptors {
		types[d.Key] = d.FieldType
	}
	return types
}

// Translate maps the state of column key. The boolean is false when the state
// is cleared or was dropped.
func (t *Translator) Translate(ctx context.Context, key string, f NativeFilter) (search.FilterCondition, bool) {
	return t.TranslateField(ctx, key, f, "")
}

// TranslateField is Translate for a column of known field type. Values of date
// columns are truncated to the day whatever widget state carried them.
func (t *Translator) TranslateField(ctx context.Context, key string, f NativeFilter, ft search.FieldType) (search.FilterCondition, bool) {
	switch f := f.(type) {
	case nil:
		return search.FilterCondition{}, false
	case Unrecognized:
		t.drop(ctx, key, DropUnsupportedKind, "error", apperror.NewUnsupportedFilterKind(key, f.Type), "filter_type", f.FilterType)
		return search.FilterCondition{}, false
	case SetFilter:
		if len(f.Values) == 0 {
			t.drop(ctx, key, DropEmptySet)
			return search.FilterCondition{}, false
		}
		return search.FilterCondition{Key: key, Operator: search.In, Values: f.Values}, true
	case ValueFilter:
		if ft == search.FieldDate {
			return t.build(ctx, key, f.Kind, TruncateDate(f.Value), TruncateDate(f.ValueTo))
		}
		return t.build(ctx, key, f.Kind, f.Value, f.ValueTo)
	case DateFilter:
		return t.build(ctx, key, f.Kind, TruncateDate(f.From), TruncateDate(f.To))
	}
	return search.FilterCondition{}, false
}

// TranslateAll maps a whole filter model in sorted key order, skipping dropped states.
// types may be nil when column types are unknown.
func (t *Translator) TranslateAll(ctx context.Context, model FilterModel, types FieldTypes) []search.FilterCondition {
	conditions := make([]search.FilterCondition, 0, len(model))
	for _, key := range model.Keys() {
		if c, ok := t.TranslateField(ctx, key, model[key], types[key]); ok {
			conditions = append(conditions, c)
		}
	}
	return conditions
}

func (t *Translator) build(ctx context.Context, key string, kind Kind, value, valueTo any) (search.FilterCondition, bool) {
	op, ok := kind.Operator()
	if !ok {
		t.drop(ctx, key, DropUnsupportedKind, "error", apperror.NewUnsupportedFilterKind(key, string(kind)))
		return search.FilterCondition{}, false
	}

	cond := search.FilterCondition{Key: key, Operator: op}
	switch {
	case !op.NeedsValue():
	case op.IsRange():
		if value == nil || valueTo == nil {
			t.drop(ctx, key, DropIncompleteRange, "operator", op)
			return search.FilterCondition{}, false
		}
		cond.Value = value
		cond.ValueTo = valueTo
	default:
		if value == nil {
			t.drop(ctx, key, DropMissingValue, "operator", op)
			return search.FilterCondition{}, false
		}
		cond.Value = value
	}
	return cond, true
}

func (t *Translator) drop(ctx context.Context, key, reason string, keysAndValues ...any) {
	args := append([]any{"key", key, "reason", reason}, keysAndValues...)
	t.log.WithContext(ctx).Warnw("filter condition dropped", args...)
	if t.observer != nil {
		t.observer.FilterDropped(reason)
	}
}
