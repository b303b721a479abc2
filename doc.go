// Package main provides the entry point for the TenderDesk administration
// portal. It initializes and runs a web server using the Fiber framework that
// gives procurement staff role-gated screens for managing users, reference
// data, supplier registrations, and the officer and committee assignments of
// requisitions and tenders. All business data is read from and written to the
// procurement REST API; only application settings are persisted locally.
package main
