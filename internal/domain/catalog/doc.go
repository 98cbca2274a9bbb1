// Package catalog declares the applications the desktop can host.
//
// A catalog lists each application's id, display title and the number of
// cards it declares when mounted, plus the application booted on an empty
// desktop. The built-in catalog is embedded; deployments may replace it
// with a YAML or TOML file, or a directory of such files.
package catalog
