package types

// AppDefinition declares a hosted application
type AppDefinition struct {
	ID    AppID  `json:"id" yaml:"id" toml:"id"`
	Title string `json:"title" yaml:"title" toml:"title"`
	// Cards is the stack depth the application declares when it mounts
	Cards int `json:"cards" yaml:"cards" toml:"cards"`
}
