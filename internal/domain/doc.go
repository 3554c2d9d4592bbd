// Package domain models departures reported by the IRIS passenger information
// backend and normalizes them into typed facts.
//
// # Data Source
//
// Departures are published to the Kafka source topic by an upstream collector that
// polls a DBF-compatible departure board backend (mode=marudor, backend=iris). Each
// message is one departure at one station, serialized as flat JSON (see
// [RawDeparture]).
//
// # Train Designations
//
// The "train" field is free text assembled by the backend from the IRIS trip label:
//
//	"<operator>? <category>? <number>"  →  e.g. "NWB RS12345", "ICE 1007", "RB 31412"
//
// Operator codes only appear for third-party operators (e.g. NWB, FLX, BSB); trains
// of the national operator carry no operator prefix. Recognized category tokens are
// RS, STB, IRE, RE, RB, IC, ICE, EC, ECE, TGV, NJ, RJ and S. The run number is a
// run of digits, sometimes with trailing letters.
//
// Canonicalization of the category, first matching rule wins:
//
//	NWB + RS     → S   (number keeps the "RS" prefix: "RS12345")
//	BSB          → S
//	FLX          → IR
//	any operator → RB
//	ECE          → EC
//	otherwise    → category as captured (may be absent)
//
// Long-distance classification looks at the raw string only: any occurrence of
// IC, ICE, EC, ECE, TGV or RJ marks the departure as long-distance. It does not
// consult the canonical category, so "ABC ICE 9" is canonicalized to RB but is
// still long-distance.
//
// # Message Codes
//
// IRIS attaches messages to a departure as (type, code, timestamp) triples:
//
//	type "d"      → delay reason      (e.g. 43 "Verspätung eines vorausfahrenden Zuges")
//	type "f", "q" → quality of service (e.g. 80 "Abweichende Wagenreihung")
//
// Codes are numeric strings. The text catalog is known to be incomplete (code 4 is
// intentionally absent) and a few entries (55, 58, 900) carry a meaning that was
// never confirmed; their text is reported as-is and flagged as uncertain.
//
// Some codes make others redundant when both are reported for the same departure,
// e.g. 84 "Zug verkehrt richtig gereiht" supersedes 80 "Abweichende Wagenreihung".
// Supersession is evaluated once against the full reported set; it is not chained.
// Codes 96 and 97 supersede each other; when both are reported both are kept.
//
// # ID Generation
//
// Departure IDs are deterministic SHA-256 hashes of station|train|scheduled time,
// so replays of the same departure produce the same key on the sink topic. See
// [generateID].
package domain
