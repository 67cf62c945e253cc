// Package policy decides which requests, budgets and vendors a principal may
// see.  The role rules in Visible always apply; an optional Policy attached
// to the context narrows them further.
package policy
