package lightning

import (
	"fmt"

	"github.com/bolt-observer/nodectl/entities"
	utils "github.com/bolt-observer/go_common/utils"
)

func validateOpenOptions(options entities.OpenChannelOptions) error {
	if options.From == nil {
		return classifyf(ErrConfiguration, "no source node")
	}

	pubkey, _ := entities.SplitConnectionString(options.ToRPCUrl)
	if !utils.ValidatePubkey(pubkey) {
		return classifyf(ErrConfiguration, "invalid pubkey in %q", options.ToRPCUrl)
	}

	if options.Amount == 0 {
		return classifyf(ErrConfiguration, "channel amount must be positive")
	}

	return nil
}

func defaultMemo(node *entities.NodeDescriptor, memo string) string {
	if memo != "" {
		return memo
	}

	return fmt.Sprintf("Payment to %s", node.Name)
}
