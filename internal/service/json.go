package service

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// datatypesJSON marshals v into a JSON column value, empty object on error.
func datatypesJSON(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(raw)
}
