// Package alert delivers one-shot webhook notifications for repositories that
// became public.
package alert
