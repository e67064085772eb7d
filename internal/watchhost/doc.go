// Package watchhost is a recording watch host. It captures what a watch
// session writes to the console: every output string, the output positions
// preceded by a screen clear, and the exit code.
package watchhost
