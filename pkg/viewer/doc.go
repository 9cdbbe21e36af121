// Package viewer ties the pieces together: a Controller tracks the load of a
// single node through Idle, Loading, Ready and Failed, and a Viewer fetches,
// composes and renders pages through a renderer registry. Viewer also
// satisfies the terminal browser's page source.
package viewer
