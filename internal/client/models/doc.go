// Package models defines the data types shared by the tablekeeper client:
// registered accounts and the records shown in the table view.
package models
