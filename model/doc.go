// Package model contains the procurement domain types shared by the routing
// engine, the budget engine and the approval service: requests, vendors,
// department budgets, approval steps and roles.
//
// The types are plain data with json (and, where they are loaded from
// fixtures, yaml) tags.  Behaviour beyond simple derived values lives in the
// service packages.
package model
