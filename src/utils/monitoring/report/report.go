package report

type Report struct {
	Run            *RunReport            `json:"run,omitempty"`
	Keeper         *KeeperReport         `json:"keeper,omitempty"`
	RedisPublisher *RedisPublisherReport `json:"redis_publisher,omitempty"`
}
