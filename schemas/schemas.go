// Package schemas хранит JSON-схемы событий, которыми сервисы обмениваются через очередь
package schemas

import "embed"

//go:embed events
var SchemasFS embed.FS
