package audio

// Path is the saved location of an episode audio file.
type Path string

// Store resolves and persists exported episode audio under the output
// directory.
type Store interface {
	// PathFor returns the path an episode with the given title will be
	// written to, creating parent directories as needed.
	PathFor(title string) (Path, error)

	// Save persists data for the given episode title and returns the path.
	Save(data []byte, title string) (Path, error)
}
