package model

// SceneFileFormat is an enum type for recognized scene asset file types
type SceneFileFormat string

// GeoTIFF corresponds to .TIF files with geospatial info
const GeoTIFF SceneFileFormat = "geotiff"

// JPEG2000 corresponds to .JP2 files
const JPEG2000 SceneFileFormat = "jpeg2000"

// DefaultCollection is the catalog collection queried when none is configured
const DefaultCollection = "sentinel-2-l2a"

// CloudCoverProperty is the catalog property holding scene cloud cover
const CloudCoverProperty = "eo:cloud_cover"
