package snippets

// The library ships with the binary. Order matters: it is the tie-break for
// equal ranking scores.
var library = []Snippet{
	{
		Name:   "player-movement",
		Genres: []string{"platformer", "adventure"},
		Keywords: []string{
			"jump", "player", "move", "walk", "run", "platform",
		},
		Content: `// Side-scrolling player with gravity and jumping
const player = { x: 50, y: 200, vx: 0, vy: 0, width: 32, height: 32, onGround: false };
const GRAVITY = 0.6;
const JUMP_POWER = -12;
const MOVE_SPEED = 4;

function updatePlayer() {
  player.vy += GRAVITY;
  player.x += player.vx;
  player.y += player.vy;
  if (player.y + player.height >= groundY) {
    player.y = groundY - player.height;
    player.vy = 0;
    player.onGround = true;
  }
}

function jump() {
  if (player.onGround) {
    player.vy = JUMP_POWER;
    player.onGround = false;
  }
}`,
	},
	{
		Name:   "car-physics",
		Genres: []string{"racing", "sports"},
		Keywords: []string{
			"car", "race", "racing", "drive", "speed", "steer",
		},
		Content: `// Top-down car with acceleration and steering
const car = { x: 200, y: 300, angle: 0, speed: 0 };
const MAX_SPEED = 8;
const ACCEL = 0.2;
const FRICTION = 0.05;
const TURN_RATE = 0.05;

function updateCar(input) {
  if (input.up) car.speed = Math.min(car.speed + ACCEL, MAX_SPEED);
  if (input.down) car.speed = Math.max(car.speed - ACCEL, -MAX_SPEED / 2);
  car.speed *= (1 - FRICTION);
  if (input.left) car.angle -= TURN_RATE * (car.speed / MAX_SPEED);
  if (input.right) car.angle += TURN_RATE * (car.speed / MAX_SPEED);
  car.x += Math.cos(car.angle) * car.speed;
  car.y += Math.sin(car.angle) * car.speed;
}`,
	},
	{
		Name:   "grid-board",
		Genres: []string{"puzzle", "strategy"},
		Keywords: []string{
			"grid", "tile", "match", "board", "puzzle", "swap",
		},
		Content: `// Grid board with tile swapping and match detection
const ROWS = 8, COLS = 8, TYPES = 5;
let board = [];

function initBoard() {
  for (let r = 0; r < ROWS; r++) {
    board[r] = [];
    for (let c = 0; c < COLS; c++) {
      board[r][c] = Math.floor(Math.random() * TYPES);
    }
  }
}

function findMatches() {
  const matches = [];
  for (let r = 0; r < ROWS; r++) {
    for (let c = 0; c < COLS - 2; c++) {
      if (board[r][c] === board[r][c + 1] && board[r][c] === board[r][c + 2]) {
        matches.push([r, c], [r, c + 1], [r, c + 2]);
      }
    }
  }
  return matches;
}`,
	},
	{
		Name:   "enemy-spawner",
		Genres: []string{"shooter", "space", "arcade"},
		Keywords: []string{
			"shoot", "bullet", "enemy", "spawn", "wave", "alien",
		},
		Content: `// Timed enemy waves with bullets
let enemies = [];
let bullets = [];
let spawnTimer = 0;

function updateSpawner() {
  spawnTimer--;
  if (spawnTimer <= 0) {
    enemies.push({ x: Math.random() * canvas.width, y: -20, hp: 1 });
    spawnTimer = 60;
  }
  enemies.forEach(e => e.y += 2);
  enemies = enemies.filter(e => e.y < canvas.height && e.hp > 0);
}

function fireBullet(fromX, fromY) {
  bullets.push({ x: fromX, y: fromY, vy: -8 });
}`,
	},
	{
		Name:   "collision-detection",
		Genres: []string{"platformer", "shooter", "arcade"},
		Keywords: []string{
			"collision", "collide", "hit", "overlap", "bounce",
		},
		Content: `// Axis-aligned bounding box overlap test
function collides(a, b) {
  return a.x < b.x + b.width &&
         a.x + a.width > b.x &&
         a.y < b.y + b.height &&
         a.y + a.height > b.y;
}

function resolveHits(bullets, enemies, onHit) {
  for (const bullet of bullets) {
    for (const enemy of enemies) {
      if (collides(bullet, enemy)) {
        enemy.hp--;
        bullet.dead = true;
        onHit(enemy);
      }
    }
  }
}`,
	},
	{
		Name:   "keyboard-input",
		Genres: []string{"platformer", "racing", "shooter", "arcade"},
		Keywords: []string{
			"keyboard", "controls", "arrow", "keys", "wasd", "input",
		},
		Content: `// Keyboard state tracking for arrows and WASD
const keys = {};
window.addEventListener('keydown', e => { keys[e.key] = true; });
window.addEventListener('keyup', e => { keys[e.key] = false; });

function readInput() {
  return {
    up: keys['ArrowUp'] || keys['w'],
    down: keys['ArrowDown'] || keys['s'],
    left: keys['ArrowLeft'] || keys['a'],
    right: keys['ArrowRight'] || keys['d'],
    action: keys[' '],
  };
}`,
	},
	{
		Name:   "game-loop",
		Genres: []string{"platformer", "racing", "puzzle", "shooter", "arcade"},
		Keywords: []string{
			"loop", "update", "animate", "frame", "canvas",
		},
		Content: `// requestAnimationFrame loop with fixed update and draw phases
const canvas = document.getElementById('game');
const ctx = canvas.getContext('2d');
let lastTime = 0;

function loop(time) {
  const dt = Math.min((time - lastTime) / 16.67, 3);
  lastTime = time;
  update(dt);
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  draw(ctx);
  requestAnimationFrame(loop);
}
requestAnimationFrame(loop);`,
	},
	{
		Name:   "score-display",
		Genres: []string{"arcade", "shooter", "puzzle"},
		Keywords: []string{
			"score", "points", "lives", "hud", "high score",
		},
		Content: `// Score and lives HUD drawn over the playfield
let score = 0;
let lives = 3;

function addScore(points) {
  score += points;
  if (score > (parseInt(localStorage.getItem('highScore')) || 0)) {
    localStorage.setItem('highScore', String(score));
  }
}

function drawHUD(ctx) {
  ctx.fillStyle = '#fff';
  ctx.font = '16px monospace';
  ctx.fillText('Score: ' + score, 10, 24);
  ctx.fillText('Lives: ' + lives, 10, 44);
}`,
	},
}
