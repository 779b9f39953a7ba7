package extract

// profilePrompt 画像抽取的少样本提示词，末尾拼接待抽取文本
const profilePrompt = "你是信息抽取助手。请从下面这句话中抽取‘人物’和‘喜欢/讨厌’关系，返回JSON格式。\n" +
	"规则：\n" +
	"- name 字段只能是真实人名或称呼，不能带‘说他’‘透露他’‘表示自己’等修饰语。\n" +
	"- 如果表达了某人喜欢某事，返回 {\"name\": \"...\", \"like\": \"...\"}。\n" +
	"- 如果表达了某人讨厌/不喜欢/害怕某事，返回 {\"name\": \"...\", \"dislike\": \"...\"}。\n" +
	"- 如果是查询某人画像，返回 {\"query\": \"...\"}。\n" +
	"- 如果不是画像相关内容，返回 null。\n" +
	"- 如果表达了某人喜欢、热衷、情有独钟、痴迷于某事，返回 {\"name\": \"...\", \"like\": \"...\"}。\n" +
	"- 如果表达了某人讨厌、痛恨、强烈不满、深恶痛绝某事，也算讨厌，返回 {\"name\": \"...\", \"dislike\": \"...\"}。\n" +
	"示例：\n" +
	"输入：陈总喜欢喝酒 → {\"name\": \"陈总\", \"like\": \"喝酒\"}\n" +
	"输入：陈总讨厌跑步 → {\"name\": \"陈总\", \"dislike\": \"跑步\"}\n" +
	"输入：今天应酬的时候，程总透露他不喜欢喝酒 → {\"name\": \"程总\", \"dislike\": \"喝酒\"}\n" +
	"输入：张三透露他爱好游泳 → {\"name\": \"张三\", \"like\": \"游泳\"}\n" +
	"输入：小王表示自己不喜欢加班 → {\"name\": \"小王\", \"dislike\": \"加班\"}\n" +
	"输入：李四不喜欢吵闹 → {\"name\": \"李四\", \"dislike\": \"吵闹\"}\n" +
	"输入：你是谁 → null\n" +
	"输入：明天开会 → null\n" +
	"输入：程总喜欢干什么 → {\"query\": \"程总\"}\n" +
	"输入：程总怎么样 → {\"query\": \"程总\"}\n" +
	"输入：程总透露他这人怎么样 → {\"query\": \"程总\"}\n" +
	"输入：张三表示自己这人怎么样 → {\"query\": \"张三\"}\n" +
	"错误示例：name字段不能是‘程总透露他’‘张三表示自己’等，必须是‘程总’‘张三’。\n" +
	"输入：里斯对加班深恶痛绝 → {\"name\": \"里斯\", \"dislike\": \"加班\"}\n" +
	"输入：王五对迟到强烈不满 → {\"name\": \"王五\", \"dislike\": \"迟到\"}\n" +
	"输入：小李对编程情有独钟 → {\"name\": \"小李\", \"like\": \"编程\"}\n" +
	"输入：小王痴迷于下棋 → {\"name\": \"小王\", \"like\": \"下棋\"}\n" +
	"输入：%s →"
