package main

// usageBody lists commands and flags. Each template below only differs in its
// Usage lines.
const usageBody = `
{{if .HasAvailableSubCommands}}Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}
{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

// rootUsageTemplate advertises the bare-word lookup shortcut.
const rootUsageTemplate = `Usage:
  wordlens <word> [flags]
  {{.CommandPath}} [command]
` + usageBody

// groupUsageTemplate is for commands such as books and env whose bare form
// runs a default action.
const groupUsageTemplate = `Usage:
  {{.UseLine}}
  {{.CommandPath}} [command]
` + usageBody

const leafUsageTemplate = `Usage:
  {{.UseLine}}
` + usageBody
