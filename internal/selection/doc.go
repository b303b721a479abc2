// Package selection holds the selection state machines behind the
// assignment screens: capped multi-select pickers for officers and
// preparers, replace-on-select single pickers for managers, the
// committee-with-head combination, and the role picker with its locked
// baseline role.
//
// All types validate locally; a screen only talks to the procurement API
// once its selection passes Validate.
package selection
