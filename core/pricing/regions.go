// Package pricing - AWS region normalization
package pricing

// regionLocations maps AWS region codes to the location names the price
// list catalog uses in its "location" attribute.
var regionLocations = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"eu-west-1":      "EU (Ireland)",
	"eu-west-2":      "EU (London)",
	"eu-west-3":      "EU (Paris)",
	"eu-central-1":   "EU (Frankfurt)",
	"eu-north-1":     "EU (Stockholm)",
	"eu-south-1":     "EU (Milan)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ap-northeast-2": "Asia Pacific (Seoul)",
	"ap-northeast-3": "Asia Pacific (Osaka)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ap-south-1":     "Asia Pacific (Mumbai)",
	"ap-east-1":      "Asia Pacific (Hong Kong)",
	"sa-east-1":      "South America (Sao Paulo)",
	"ca-central-1":   "Canada (Central)",
	"me-south-1":     "Middle East (Bahrain)",
	"af-south-1":     "Africa (Cape Town)",
}

// regionUsagePrefixes maps AWS region codes to the usage-type prefix the
// catalog puts in front of usagetype values outside us-east-1.
var regionUsagePrefixes = map[string]string{
	"us-east-1":      "USE1-",
	"us-east-2":      "USE2-",
	"us-west-1":      "USW1-",
	"us-west-2":      "USW2-",
	"eu-west-1":      "EU-",
	"eu-west-2":      "EUW2-",
	"eu-west-3":      "EUW3-",
	"eu-central-1":   "EUC1-",
	"eu-north-1":     "EUN1-",
	"eu-south-1":     "EUS1-",
	"ap-northeast-1": "APN1-",
	"ap-northeast-2": "APN2-",
	"ap-northeast-3": "APN3-",
	"ap-southeast-1": "APS1-",
	"ap-southeast-2": "APS2-",
	"ap-south-1":     "APS3-",
	"ap-east-1":      "APE1-",
	"sa-east-1":      "SAE1-",
	"ca-central-1":   "CAN1-",
	"me-south-1":     "MES1-",
	"af-south-1":     "AFS1-",
}

// RegionToLocation returns the catalog location name for a region code.
// Unknown regions pass through unchanged.
func RegionToLocation(region string) string {
	if loc, ok := regionLocations[region]; ok {
		return loc
	}
	return region
}

// RegionUsagePrefix returns the usage-type prefix for a region code, or
// an empty string for unknown regions.
func RegionUsagePrefix(region string) string {
	return regionUsagePrefixes[region]
}
