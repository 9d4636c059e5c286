package event

// PatchOp is a JSON Patch (RFC 6902) operation name.
type PatchOp string

// Supported patch operations.
const (
	PatchAdd     PatchOp = "add"
	PatchRemove  PatchOp = "remove"
	PatchReplace PatchOp = "replace"
)

// JSONPatch is one operation of a state delta. Path is a JSON pointer.
type JSONPatch struct {
	Op    PatchOp `json:"op"`
	Path  string  `json:"path"`
	Value any     `json:"value,omitempty"`
}

// Add returns an add operation.
func Add(path string, value any) JSONPatch {
	return JSONPatch{Op: PatchAdd, Path: path, Value: value}
}

// Replace returns a replace operation.
func Replace(path string, value any) JSONPatch {
	return JSONPatch{Op: PatchReplace, Path: path, Value: value}
}

// Remove returns a remove operation.
func Remove(path string) JSONPatch {
	return JSONPatch{Op: PatchRemove, Path: path}
}
