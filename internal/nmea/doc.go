// Package nmea extracts and decodes NMEA-0183 sentences from raw serial reads.
//
// The pipeline is synchronous and keeps no state between calls:
//
//	RawBuffer -> Locate -> ValidateChecksum -> Classify -> ExtractRMC
//	          -> DecodeCoordinate / DecodeTime / DecodeDate -> Normalize -> Fix
//
// Only RMC-class sentences (GPRMC, GNRMC) are decoded. Other allow-listed
// sentences are classified and reported with ErrNotDecoded.
package nmea
