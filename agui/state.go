package agui

import (
	"sort"
	"strings"
	"sync"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/johnsonav1992/formularity/deep"
	"github.com/johnsonav1992/formularity/event"
	"github.com/johnsonav1992/formularity/fieldpath"
	"github.com/johnsonav1992/formularity/form"
)

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Snapshot returns a STATE_SNAPSHOT event carrying the view's document.
func Snapshot(v form.View) events.Event {
	return events.NewStateSnapshotEvent(v.Document())
}

// Delta returns a STATE_DELTA event for the given operations.
func Delta(patches []event.JSONPatch) events.Event {
	ops := make([]events.JSONPatchOperation, len(patches))
	for i, p := range patches {
		ops[i] = events.JSONPatchOperation{
			Op:    string(p.Op),
			Path:  p.Path,
			Value: p.Value,
		}
	}
	return events.NewStateDeltaEvent(ops)
}

// ValuePointer returns the JSON pointer of a field value inside a form
// document.
func ValuePointer(path string) string {
	return "/values" + fieldpath.Pointer(path)
}

// Diff returns the operations turning prev into next. Objects are compared
// key by key in sorted order; arrays and scalars that differ are replaced
// whole. Equal documents produce no operations.
func Diff(prev, next map[string]any) []event.JSONPatch {
	var ops []event.JSONPatch
	diff("", prev, next, &ops)
	return ops
}

func diff(ptr string, a, b any, ops *[]event.JSONPatch) {
	am, aIsMap := a.(map[string]any)
	bm, bIsMap := b.(map[string]any)
	if !aIsMap || !bIsMap {
		if !deep.Equal(a, b) {
			*ops = append(*ops, event.Replace(ptr, deep.Clone(b)))
		}
		return
	}

	keys := make([]string, 0, len(am)+len(bm))
	for k := range am {
		keys = append(keys, k)
	}
	for k := range bm {
		if _, ok := am[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		p := ptr + "/" + pointerEscaper.Replace(k)
		av, inA := am[k]
		bv, inB := bm[k]
		switch {
		case !inB:
			*ops = append(*ops, event.Remove(p))
		case !inA:
			*ops = append(*ops, event.Add(p, deep.Clone(bv)))
		default:
			diff(p, av, bv, ops)
		}
	}
}

// Bridge sends a snapshot of ctrl to out, then a delta after every store
// change that alters the form document. Sends never block. When an event is
// dropped because out is full, the next change sends a fresh snapshot
// instead of a delta, so the receiver never patches a stale base. The
// returned function stops the bridge.
func Bridge(ctrl *form.Controller, out chan<- events.Event) (stop func()) {
	var (
		mu    sync.Mutex
		prev  map[string]any
		stale bool
	)

	// Subscribe before the first snapshot so no change falls in between.
	mu.Lock()
	defer mu.Unlock()

	stop = ctrl.Subscribe(func(form.View) {
		mu.Lock()
		defer mu.Unlock()

		next := ctrl.View().Document()

		if stale {
			stale = !send(out, events.NewStateSnapshotEvent(next))
			prev = next
			return
		}
		ops := Diff(prev, next)
		prev = next
		if len(ops) > 0 && !send(out, Delta(ops)) {
			stale = true
		}
	})

	prev = ctrl.View().Document()
	stale = !send(out, events.NewStateSnapshotEvent(prev))
	return stop
}

// send delivers ev without blocking and reports whether it was delivered.
func send(out chan<- events.Event, ev events.Event) bool {
	select {
	case out <- ev:
		return true
	default:
		return false
	}
}
