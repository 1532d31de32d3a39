package graph

// Emitter represents generator producing output documents from the project index
type Emitter interface {
	Emit(project *Project) (Documents, error)
}
