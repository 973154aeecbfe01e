// Package command implements the command-translation pipeline: parsing tool
// targets out of loosely-typed MCP arguments, validating them, applying the
// safety clamp, and producing the OpenShock control records sent downstream.
//
// Validation is all-or-nothing: the first invalid target aborts the whole
// call and no downstream request is issued.
package command
