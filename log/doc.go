// Package log provides the logging facade for the transformer.
//
// The transformation core itself is a pure function of its input and stays
// quiet apart from debug traces at pass boundaries; the HTTP server and CLI
// log through the package-level logger. Use SetDefaultLogger to plug in a
// custom implementation, or NewGologLogger to route output through
// kataras/golog.
package log
