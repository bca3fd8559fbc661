// Package smsbackup decodes SMS/MMS XML backups and converts them into
// per-address conversations.
package smsbackup
