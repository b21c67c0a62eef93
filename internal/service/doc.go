// Package service groups the application use cases. Each subpackage owns one
// area and depends only on domain types and the store interfaces:
//
//   - auth: credential checks, token issue and refresh
//   - availability: available days and hours for a service
//   - catalog: generic list and get over soft-deleted resources
//   - notification: resend of registration and recovery e-mails
//   - outreach: appointment reminders and survey invitations sent by citasctl
//
// Services receive their dependencies through constructors and never import
// infrastructure packages directly.
package service
