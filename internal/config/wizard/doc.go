// Package wizard provides the interactive configuration wizard behind
// mrpctl init.
//
// RunWizard collects answers with charmbracelet/huh forms, BuildConfig
// turns them into a config.Config and WriteConfig writes the YAML file.
package wizard
