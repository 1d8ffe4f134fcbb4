package model

import "time"

// Vehicle holds the descriptive details of the car attached to an
// auction.  The relationship is 1:1 — each auction owns exactly one
// vehicle row, keyed by a unique auction_id.
//
// Fields:
//  ID           – primary key identifier.
//  AuctionID    – owning auction (unique).
//  Make         – manufacturer, e.g. "Alfa Romeo".
//  Model        – model name.
//  Year         – model year.
//  MileageKM    – odometer reading in kilometres.
//  FuelType     – e.g. PETROL, DIESEL, ELECTRIC, HYBRID.
//  Transmission – e.g. MANUAL, AUTOMATIC.
//  Color        – exterior colour.
//  VIN          – vehicle identification number.
type Vehicle struct {
	ID           uint64    // vehicles.id
	AuctionID    uint64    // vehicles.auction_id
	Make         string    // vehicles.make
	Model        string    // vehicles.model
	Year         uint16    // vehicles.year
	MileageKM    uint32    // vehicles.mileage_km
	FuelType     string    // vehicles.fuel_type
	Transmission string    // vehicles.transmission
	Color        string    // vehicles.color
	VIN          string    // vehicles.vin
	CreatedAt    time.Time // vehicles.created_at
	UpdatedAt    time.Time // vehicles.updated_at
}

// VehicleImage is one uploaded photo of an auction's vehicle.  The file
// itself lives under the static-served uploads directory; the row stores
// only the generated file name and the display position.
type VehicleImage struct {
	ID        uint64    // vehicle_images.id
	AuctionID uint64    // vehicle_images.auction_id
	FileName  string    // vehicle_images.file_name
	Position  uint16    // vehicle_images.position
	CreatedAt time.Time // vehicle_images.created_at
}
