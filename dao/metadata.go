package dao

import (
	"Shopcore/models"

	"gorm.io/datatypes"
)

func newCartMetadata(m models.CartMetadata) datatypes.JSONType[models.CartMetadata] {
	m.Version = models.MetadataVersion
	return datatypes.NewJSONType(m)
}
