package lightning

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/golang/glog"
	"gopkg.in/macaroon.v2"
)

const timeBeforeCaveat = "time-before"

// macaroonHex validates the node macaroon and returns it hex encoded for the auth header
func macaroonHex(node *entities.NodeDescriptor) (string, error) {
	raw := node.Credentials.Macaroon
	if len(raw) == 0 {
		return "", classifyf(ErrConfiguration, "no macaroon for node %s", node.Name)
	}

	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(raw); err != nil {
		return "", classifyf(ErrConfiguration, "unable to unmarshal macaroon for node %s: %v", node.Name, err)
	}

	if valid, _ := IsMacaroonValid(mac); !valid {
		return "", classifyf(ErrAuth, "macaroon for node %s expired", node.Name)
	}

	return hex.EncodeToString(raw), nil
}

// IsMacaroonValid checks time-before caveats and returns the remaining validity
func IsMacaroonValid(mac *macaroon.Macaroon) (bool, time.Duration) {
	minTime := time.Time{}

	for _, v := range mac.Caveats() {
		split := strings.Split(string(v.Id), " ")
		if len(split) != 2 || split[0] != timeBeforeCaveat {
			continue
		}

		t, err := time.Parse(time.RFC3339Nano, split[1])
		if err != nil {
			glog.Warningf("Could not parse time: %v", err)
			continue
		}

		if minTime.IsZero() || t.Before(minTime) {
			minTime = t
		}
	}

	if minTime.IsZero() {
		return true, time.Duration(1<<63 - 1)
	}

	dur := time.Until(minTime)
	return dur > 0, dur
}
