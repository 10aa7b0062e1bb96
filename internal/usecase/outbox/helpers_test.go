//go:build unit

package outbox_test

import "encoding/json"

var jsonMarshal = json.Marshal
