package constants

const (
	WS_SEND_BUFFER       = 64  // 每个 WebSocket 客户端的推送缓冲
	LOOP_QUEUE_SIZE      = 256 // 事件循环任务队列长度
	DEFAULT_FRIEND_LIST  = "default"
	FRIEND_LIST_KEY_HEAD = "contacts:friend_list:" // redis 集合键前缀
	MAX_PAGE_LIMIT       = 200                     // 分页读取行数上限
	DEFAULT_PAGE_LIMIT   = 50                      // 分页读取默认行数
	MAX_VCARD_SIZE       = 64 << 10                // 导入 vCard 文本的大小上限
)
