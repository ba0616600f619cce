// Package core holds small numeric helpers and the processing configuration
// shared by the filter stages, the host shell and the render tools.
package core
