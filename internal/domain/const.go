package domain

const (
	// DEFAULT_IPFS_GATEWAY is used when no pinning gateway is configured
	DEFAULT_IPFS_GATEWAY = "gateway.pinata.cloud"

	// ETHEREUM_ZERO_ADDRESS is the null owner returned for burned or unknown tokens
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// QUEST_KEY_MINT is the quest marked claimable when a card mint is confirmed
	QUEST_KEY_MINT = "mint"

	// CARD_IMAGE_NAME_PREFIX prefixes the logical artifact name of a card image
	CARD_IMAGE_NAME_PREFIX = "card-"

	// TASK_CARD_BACKFILL names the fire-and-forget chain sync task
	TASK_CARD_BACKFILL = "card-backfill"
)
